package shapes

type Shape interface {
	Area() float64
}

type Square struct {
	Side float64
}

func (s Square) Area() float64 {
	return s.Side * s.Side
}

type Circle struct {
	R float64
}

func (c Circle) Area() float64 {
	return 3 * c.R * c.R
}
