package lv

// Obj is a node of the object tree. The screen is the root; image nodes are its children.
type Obj struct {
	disp     *Display
	parent   *Obj
	children []*Obj

	x, y int
	w, h int

	bg  Color
	src *ImageDsc
}

// NewImage creates an empty image node attached to parent.
func NewImage(parent *Obj) *Obj {
	obj := &Obj{
		disp:   parent.disp,
		parent: parent,
	}
	parent.children = append(parent.children, obj)
	return obj
}

// SetSrc binds the image resource and resizes the node to it.
func (o *Obj) SetSrc(src *ImageDsc) {
	o.invalidate()
	o.src = src
	if src != nil {
		o.w, o.h = src.W, src.H
	} else {
		o.w, o.h = 0, 0
	}
	o.invalidate()
}

func (o *Obj) Src() *ImageDsc {
	return o.src
}

// SetPos moves the node, relative to its parent.
func (o *Obj) SetPos(x, y int) {
	o.invalidate()
	o.x, o.y = x, y
	o.invalidate()
}

// SetBgColor sets the fill color of a screen.
func (o *Obj) SetBgColor(c Color) {
	o.bg = c
	o.invalidate()
}

// Delete detaches the node from its parent.
func (o *Obj) Delete() {
	if o.parent == nil {
		return
	}
	o.invalidate()
	siblings := o.parent.children
	for i, child := range siblings {
		if child == o {
			o.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	o.parent = nil
}

func (o *Obj) Parent() *Obj {
	return o.parent
}

func (o *Obj) ChildCount() int {
	return len(o.children)
}

func (o *Obj) Child(i int) *Obj {
	return o.children[i]
}

// Coords returns the absolute area covered by the node.
func (o *Obj) Coords() Area {
	x, y := o.x, o.y
	if o.parent != nil {
		p := o.parent.Coords()
		x += p.X1
		y += p.Y1
	}
	return Area{X1: x, Y1: y, X2: x + o.w - 1, Y2: y + o.h - 1}
}

func (o *Obj) invalidate() {
	if o.disp == nil || o.w <= 0 || o.h <= 0 || !o.onScreen() {
		return
	}
	o.disp.Invalidate(o.Coords())
}

func (o *Obj) onScreen() bool {
	for p := o; p != nil; p = p.parent {
		if p == o.disp.screen {
			return true
		}
	}
	return false
}
