// cmd/motorctl/main.go
//go:build !rp2040

// motorctl drives the motor controller over its serial link from a host.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/caarlos0/env/v6"
	"go.bug.st/serial"

	"dualmotor-go/internal/hostlink"
	"dualmotor-go/services/motor"
)

type Config struct {
	Port     string        `env:"MOTORCTL_PORT" envDefault:"/dev/ttyACM0"`
	Baud     int           `env:"MOTORCTL_BAUD" envDefault:"115200"`
	Timeout  time.Duration `env:"MOTORCTL_TIMEOUT" envDefault:"1s"`
	Coasting bool          `env:"MOTORCTL_COASTING" envDefault:"false"`
}

func main() {
	log.SetFlags(log.Ltime)
	log.SetPrefix("motorctl: ")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("environment: %v", err)
	}
	flag.StringVar(&cfg.Port, "port", cfg.Port, "serial port of the controller")
	flag.IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "reply timeout")
	flag.BoolVar(&cfg.Coasting, "coasting", cfg.Coasting, "board runs the coasting drive strategy")
	list := flag.Bool("list", false, "list serial ports and exit")
	oneShot := flag.String("c", "", "run one command and exit")
	script := flag.String("script", "", "run commands from a file, - for stdin")
	flag.Parse()

	if *list {
		ports, err := serial.GetPortsList()
		if err != nil {
			log.Fatalf("listing ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		log.Fatalf("open %s: %v", cfg.Port, err)
	}
	defer port.Close()
	log.Printf("connected to %s at %d baud", cfg.Port, cfg.Baud)

	ctl := &app{
		cfg:    cfg,
		client: hostlink.NewClient(port),
		strat:  motor.Braking{},
	}
	if cfg.Coasting {
		ctl.strat = motor.Coasting{}
	}

	switch {
	case *oneShot != "":
		if err := ctl.run(*oneShot, os.Stdout); err != nil {
			log.Fatal(err)
		}
	case *script != "":
		if err := ctl.runScript(*script); err != nil {
			log.Fatal(err)
		}
	default:
		ctl.shell().Start()
	}
}

type app struct {
	cfg    Config
	client *hostlink.Client
	strat  motor.Strategy
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.Timeout)
}

// run executes one command line and prints any value it returns.
func (a *app) run(line string, out io.Writer) error {
	ctx, cancel := a.ctx()
	defer cancel()
	v, err := a.client.Do(ctx, line)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "0x%X\n", v)
	return nil
}

func (a *app) runScript(path string) error {
	f := os.Stdin
	if path != "-" {
		var err error
		if f, err = os.Open(path); err != nil {
			return err
		}
		defer f.Close()
	}
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := a.run(line, os.Stdout); err != nil {
			log.Printf("line %d: %s: %v", n, line, err)
		}
	}
	return sc.Err()
}

func (a *app) shell() *ishell.Shell {
	shell := ishell.New()
	shell.Println("motor controller shell (" + a.strat.Name() + ")")

	shell.AddCmd(&ishell.Cmd{
		Name: "get",
		Help: "get <property>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Println("usage: get <property>")
				return
			}
			ctx, cancel := a.ctx()
			defer cancel()
			v, err := a.client.Get(ctx, c.Args[0])
			if err != nil {
				c.Println(err)
				return
			}
			c.Printf("0x%X\n", v)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set <property> <value>",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Println("usage: set <property> <value>")
				return
			}
			v, err := strconv.Atoi(c.Args[1])
			if err != nil {
				c.Println("value must be an integer")
				return
			}
			ctx, cancel := a.ctx()
			defer cancel()
			rb, err := a.client.Set(ctx, c.Args[0], v)
			if err != nil {
				c.Println(err)
				return
			}
			c.Printf("ok, readback 0x%X\n", rb)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "speed <m1|m2> [-128..127]  set or show the signed speed",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 || (c.Args[0] != "m1" && c.Args[0] != "m2") {
				c.Println("usage: speed <m1|m2> [value]")
				return
			}
			prop := c.Args[0] + "speed"
			ctx, cancel := a.ctx()
			defer cancel()

			var raw uint32
			var err error
			if len(c.Args) > 1 {
				v, perr := strconv.Atoi(c.Args[1])
				if perr != nil {
					c.Println("value must be an integer")
					return
				}
				raw, err = a.client.Set(ctx, prop, v)
			} else {
				raw, err = a.client.Get(ctx, prop)
			}
			if err != nil {
				c.Println(err)
				return
			}
			c.Printf("%s duty 0x%X speed %d\n", c.Args[0], raw, a.strat.DecodeSpeed(uint8(raw)))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "show every motor property",
		Func: func(c *ishell.Context) {
			for _, m := range []string{"m1", "m2"} {
				for _, p := range []string{"speed", "enable", "disable", "current"} {
					ctx, cancel := a.ctx()
					v, err := a.client.Get(ctx, m+p)
					cancel()
					if err != nil {
						c.Printf("%-10s %v\n", m+p, err)
						continue
					}
					c.Printf("%-10s 0x%X\n", m+p, v)
				}
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "stop both motors",
		Func: func(c *ishell.Context) {
			for _, m := range []string{"m1", "m2"} {
				ctx, cancel := a.ctx()
				if _, err := a.client.Set(ctx, m+"speed", 0); err != nil {
					c.Println(m, err)
				}
				cancel()
			}
		},
	})
	return shell
}
