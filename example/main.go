//go:build newtypeenum

package main

import (
	"fmt"

	"github.com/mgjm/newtype-enum"
)

//go:generate go run github.com/mgjm/newtype-enum/cmd/newtypeenum

// Shape is what the scanner detected in a frame.
//
//newtypeenum:union
type Shape struct {
	// Empty marks a frame without any detection.
	Empty struct{}

	// Circle is a detected circle.
	Circle struct {
		Radius float64
	}

	// Rect is a detected axis-aligned rectangle.
	Rect struct {
		W, H float64
	}
}

// Area returns the covered area of a shape.
func Area(s Shape) float64 {
	if c, ok := newtypeenum.Into(ShapeCircle, s); ok {
		return 3.14159 * c.Radius * c.Radius
	}
	if r, ok := newtypeenum.Into(ShapeRect, s); ok {
		return r.W * r.H
	}
	return 0
}

func main() {
	shapes := []Shape{
		newtypeenum.From(ShapeEmpty, Shape_variants_Empty{}),
		newtypeenum.From(ShapeCircle, Shape_variants_Circle{Radius: 2}),
		newtypeenum.From(ShapeRect, Shape_variants_Rect{W: 3, H: 4}),
	}

	for _, s := range shapes {
		fmt.Println(Area(s))
	}
}
