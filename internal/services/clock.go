package services

import "time"

// now returns the current UTC time at the precision the store keeps
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
