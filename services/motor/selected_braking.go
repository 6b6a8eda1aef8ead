//go:build !coasting

package motor

// Selected returns the drive strategy this firmware is built for.
func Selected() Strategy { return Braking{} }
