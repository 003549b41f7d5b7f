package components

// Body holds the fixed physical properties of a particle.
type Body struct {
	Radius float64
}

// Diameter returns twice the radius.
func (b Body) Diameter() float64 {
	return 2 * b.Radius
}
