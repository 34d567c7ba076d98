package device

import (
	"fmt"
	"github.com/jypelle/tftbridge/internal/lv"
	"image"
)

// SimPanel is an in-memory panel. Frames can be watched through SetOnFrame and Snapshot.
// The byte order flag is meaningless here: pixels are stored as colors, not bytes.
type SimPanel struct {
	bus
	shadow  windowWriter
	onFrame func()
}

func NewSimPanel(width, height int) *SimPanel {
	return &SimPanel{shadow: newWindowWriter(width, height)}
}

// SetOnFrame registers a hook called after each transaction, outside of the bus lock.
func (p *SimPanel) SetOnFrame(onFrame func()) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.onFrame = onFrame
}

func (p *SimPanel) StartWrite() error {
	p.acquire()
	return nil
}

func (p *SimPanel) SetAddrWindow(x, y, w, h int) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.shadow.setWindow(x, y, w, h)
}

func (p *SimPanel) PushColors(px []lv.Color, swap bool) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.shadow.write(px)
}

func (p *SimPanel) EndWrite() error {
	onFrame := p.onFrame
	if err := p.release(); err != nil {
		return err
	}
	if onFrame != nil {
		onFrame()
	}
	return nil
}

// Snapshot copies the panel content. It waits for the running transaction to end.
func (p *SimPanel) Snapshot() image.Image {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.shadow.snapshot()
}

func (p *SimPanel) String() string {
	b := p.shadow.img.Bounds()
	return fmt.Sprintf("device.SimPanel{%dx%d}", b.Dx(), b.Dy())
}
