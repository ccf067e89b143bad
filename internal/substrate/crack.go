package substrate

import "math"

// Crack is one actively growing path.
type Crack struct {
	ID int

	X, Y float64
	// T is the heading in degrees.
	T float64

	Curved bool
	// XS and YS are the lateral and forward offsets of one arc step.
	XS, YS       float64
	TInc         float64
	DegreesDrawn float64

	SandColor RGB
	SandP     float64
	SandG     float64

	StartX, StartY float64
	StartCycle     int

	dead bool
}

// Length is the straight-line distance between the start and current positions.
func (c *Crack) Length() float64 {
	return math.Hypot(c.X-c.StartX, c.Y-c.StartY)
}

// CrackInfo is a read-only view of a live crack.
type CrackInfo struct {
	ID     int
	X, Y   float64
	T      float64
	Curved bool
	Color  RGB
}

func (c *Crack) info() CrackInfo {
	return CrackInfo{ID: c.ID, X: c.X, Y: c.Y, T: c.T, Curved: c.Curved, Color: c.SandColor}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
