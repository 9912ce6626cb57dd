package segmentation

import "fmt"

// Size is a width x height pair in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) Area() int {
	return s.Width * s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an integer rectangle anchored at its top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// RectF is a rectangle with fractional coordinates.
type RectF struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Round converts to an integer rectangle, rounding each component half to
// even the way OpenCV converts Rect2f to Rect.
func (r RectF) Round() Rect {
	return Rect{
		X:      roundEven(r.X),
		Y:      roundEven(r.Y),
		Width:  roundEven(r.Width),
		Height: roundEven(r.Height),
	}
}

// InputRect is an axis-aligned region of the source image described by its
// centre, which may extend past the image bounds.
type InputRect struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// FullInputRect covers a whole image of the given size.
func FullInputRect(s Size) InputRect {
	return InputRect{
		CenterX: float64(s.Width) / 2,
		CenterY: float64(s.Height) / 2,
		Width:   float64(s.Width),
		Height:  float64(s.Height),
	}
}

// Pixels returns the integer pixel rectangle the region covers.
func (r InputRect) Pixels() Rect {
	return Rect{
		X:      roundHalfAway(r.CenterX - 0.5*r.Width),
		Y:      roundHalfAway(r.CenterY - 0.5*r.Height),
		Width:  roundHalfAway(r.Width),
		Height: roundHalfAway(r.Height),
	}
}

func (r InputRect) Size() Size {
	return Size{Width: roundHalfAway(r.Width), Height: roundHalfAway(r.Height)}
}
