package domain

import "time"

// ActivitySample is a single 3-axis accelerometer reading expressed in g.
type ActivitySample struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	Z  float64   `json:"z"`
	At time.Time `json:"at"`
}
