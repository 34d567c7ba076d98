package lv

import (
	"fmt"
	"image"
)

// Area is a rectangle with inclusive bounds.
type Area struct {
	X1, Y1 int
	X2, Y2 int
}

func AreaFromRect(r image.Rectangle) Area {
	return Area{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X - 1, Y2: r.Max.Y - 1}
}

func (a Area) Width() int {
	return a.X2 - a.X1 + 1
}

func (a Area) Height() int {
	return a.Y2 - a.Y1 + 1
}

// Size returns the pixel count, 0 for a malformed area. The product is not checked for
// overflow.
func (a Area) Size() int {
	if !a.IsValid() {
		return 0
	}
	return a.Width() * a.Height()
}

// IsValid reports whether the bounds are ordered.
func (a Area) IsValid() bool {
	return a.X1 <= a.X2 && a.Y1 <= a.Y2
}

// Intersect returns the common part of a and b. ok is false when they don't overlap.
func (a Area) Intersect(b Area) (res Area, ok bool) {
	res = Area{
		X1: maxInt(a.X1, b.X1),
		Y1: maxInt(a.Y1, b.Y1),
		X2: minInt(a.X2, b.X2),
		Y2: minInt(a.Y2, b.Y2),
	}
	return res, res.IsValid()
}

// Join returns the smallest area holding both a and b.
func (a Area) Join(b Area) Area {
	return Area{
		X1: minInt(a.X1, b.X1),
		Y1: minInt(a.Y1, b.Y1),
		X2: maxInt(a.X2, b.X2),
		Y2: maxInt(a.Y2, b.Y2),
	}
}

// IsOn reports whether a and b overlap.
func (a Area) IsOn(b Area) bool {
	_, ok := a.Intersect(b)
	return ok
}

// Contains reports whether b lies entirely inside a.
func (a Area) Contains(b Area) bool {
	return b.X1 >= a.X1 && b.Y1 >= a.Y1 && b.X2 <= a.X2 && b.Y2 <= a.Y2
}

func (a Area) Rect() image.Rectangle {
	return image.Rect(a.X1, a.Y1, a.X2+1, a.Y2+1)
}

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", a.X1, a.Y1, a.X2, a.Y2)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
