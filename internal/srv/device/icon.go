package device

import (
	"github.com/jypelle/tftbridge/internal/lv"
	"github.com/sirupsen/logrus"
)

// Node count above which the unbounded growth of the icon tree is reported.
const iconGrowthWarning = 64

// IconToggle alternates two image resources, adding a new image node to the screen at
// every tick: odd ticks show the first resource, even ticks the second.
//
// Without a node cap, nodes are never deleted and the object tree grows for the whole process
// lifetime. A warning is logged once past iconGrowthWarning nodes.
type IconToggle struct {
	count  uint32
	screen *lv.Obj
	odd    *lv.ImageDsc
	even   *lv.ImageDsc

	maxNodes int
	nodes    []*lv.Obj
	warned   bool
}

// NewIconToggle builds the toggle; maxNodes > 0 deletes the oldest icons past that count.
func NewIconToggle(screen *lv.Obj, odd, even *lv.ImageDsc, maxNodes int) *IconToggle {
	return &IconToggle{
		screen:   screen,
		odd:      odd,
		even:     even,
		maxNodes: maxNodes,
	}
}

// OnTick must run on the render context. It returns the resource of the created node.
func (t *IconToggle) OnTick() *lv.ImageDsc {
	t.count++

	src := t.even
	if t.count%2 == 1 {
		src = t.odd
	}

	icon := lv.NewImage(t.screen)
	icon.SetSrc(src)
	t.nodes = append(t.nodes, icon)
	logrus.Debugf("Icon toggle %d: %s", t.count, src.Name)

	if t.maxNodes > 0 {
		for len(t.nodes) > t.maxNodes {
			t.nodes[0].Delete()
			t.nodes[0] = nil
			t.nodes = t.nodes[1:]
		}
	} else if len(t.nodes) > iconGrowthWarning && !t.warned {
		t.warned = true
		logrus.Warnf("Icon toggle keeps every node: %d image nodes on screen and growing", len(t.nodes))
	}

	return src
}

func (t *IconToggle) Count() uint32 {
	return t.count
}

// Nodes returns the number of icon nodes still attached.
func (t *IconToggle) Nodes() int {
	return len(t.nodes)
}

// Current returns the resource of the last created node, nil before the first tick.
func (t *IconToggle) Current() *lv.ImageDsc {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[len(t.nodes)-1].Src()
}
