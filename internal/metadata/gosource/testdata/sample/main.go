package main

import "example.com/sample/shapes"

func main() {
	var s shapes.Shape = shapes.Square{Side: 2}
	println(describe(s))
}

func describe(s shapes.Shape) float64 {
	return s.Area()
}

func unused() float64 {
	return shapes.Circle{R: 1}.Area()
}
