package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract the GUI shell drives once per tick.
type Sim interface {
	Name() string
	Size() Size
	Update() error
	Done() bool
}
