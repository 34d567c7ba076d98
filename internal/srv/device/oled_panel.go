package device

import (
	"fmt"
	"github.com/jypelle/tftbridge/internal/lv"
	"image"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

type drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OledPanel drives a monochrome SSD1306 OLED. Pixels are collected in a shadow image and the
// window is sent on EndWrite, the controller doing the color to 1 bit conversion.
type OledPanel struct {
	bus
	dev    drawer
	shadow windowWriter
}

func NewOledPanel(b i2c.Bus, width, height int) (*OledPanel, error) {
	opts := ssd1306.DefaultOpts
	opts.W = width
	opts.H = height

	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		return nil, fmt.Errorf("oled panel: %w", err)
	}
	return newOledPanel(dev, width, height), nil
}

func newOledPanel(dev drawer, width, height int) *OledPanel {
	return &OledPanel{dev: dev, shadow: newWindowWriter(width, height)}
}

func (p *OledPanel) StartWrite() error {
	p.acquire()
	return nil
}

func (p *OledPanel) SetAddrWindow(x, y, w, h int) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.shadow.setWindow(x, y, w, h)
}

func (p *OledPanel) PushColors(px []lv.Color, swap bool) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.shadow.write(px)
}

func (p *OledPanel) EndWrite() error {
	if err := p.check(); err != nil {
		return err
	}
	var err error
	if !p.shadow.window.Empty() {
		err = p.dev.Draw(p.shadow.window, p.shadow.img, p.shadow.window.Min)
		p.shadow.window = image.Rectangle{}
	}
	if relErr := p.release(); err == nil {
		err = relErr
	}
	return err
}

func (p *OledPanel) Halt() error {
	p.acquire()
	defer p.release()
	return p.dev.Halt()
}

func (p *OledPanel) String() string {
	b := p.shadow.img.Bounds()
	return fmt.Sprintf("device.OledPanel{%dx%d}", b.Dx(), b.Dy())
}
