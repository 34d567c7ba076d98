package device

import (
	"errors"
	"fmt"
	"github.com/jypelle/tftbridge/internal/lv"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"time"
)

// ST7789 command set
const (
	cmdSwReset = 0x01
	cmdSlpIn   = 0x10
	cmdSlpOut  = 0x11
	cmdNorOn   = 0x13
	cmdInvOn   = 0x21
	cmdDispOff = 0x28
	cmdDispOn  = 0x29
	cmdCaSet   = 0x2A
	cmdRaSet   = 0x2B
	cmdRamWr   = 0x2C
	cmdMadCtl  = 0x36
	cmdColMod  = 0x3A
)

// Largest single SPI transfer, the spidev default buffer size
const spiMaxTx = 4096

// SpiOpts is the configuration of a SPI RGB565 panel.
type SpiOpts struct {
	W, H int
	Hz   int64
	Mode int

	// Optional hardware reset pin
	RST gpio.PinOut
}

type txer interface {
	Tx(w, r []byte) error
}

// SpiPanel drives a ST7789 class RGB565 panel on a SPI bus with a Data/Command pin.
type SpiPanel struct {
	bus

	c   txer
	dc  gpio.PinOut
	rst gpio.PinOut

	width, height int
	txBuf         []byte
	sleep         func(time.Duration)
}

// NewSpiPanel connects the panel and runs its initialization sequence.
func NewSpiPanel(p spi.Port, dc gpio.PinOut, opts *SpiOpts) (*SpiPanel, error) {
	if opts == nil || opts.W <= 0 || opts.H <= 0 {
		return nil, errors.New("spi panel: width and height are required")
	}
	if dc == nil {
		return nil, errors.New("spi panel: dc pin is required")
	}

	c, err := p.Connect(physic.Frequency(opts.Hz)*physic.Hertz, spi.Mode(opts.Mode), 8)
	if err != nil {
		return nil, fmt.Errorf("spi panel: unable to connect: %w", err)
	}

	d := newSpiPanel(c, dc, opts)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newSpiPanel(c txer, dc gpio.PinOut, opts *SpiOpts) *SpiPanel {
	return &SpiPanel{
		c:      c,
		dc:     dc,
		rst:    opts.RST,
		width:  opts.W,
		height: opts.H,
		txBuf:  make([]byte, spiMaxTx),
		sleep:  time.Sleep,
	}
}

func (d *SpiPanel) init() error {
	d.acquire()
	defer d.release()

	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("spi panel: failed to pull RST low: %w", err)
		}
		d.sleep(20 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("spi panel: failed to pull RST high: %w", err)
		}
		d.sleep(150 * time.Millisecond)
	}

	steps := []struct {
		cmd   byte
		data  []byte
		pause time.Duration
	}{
		{cmdSwReset, nil, 150 * time.Millisecond},
		{cmdSlpOut, nil, 10 * time.Millisecond},
		{cmdColMod, []byte{0x55}, 0}, // 16 bit color
		{cmdMadCtl, []byte{0x00}, 0},
		{cmdInvOn, nil, 0},
		{cmdNorOn, nil, 0},
		{cmdDispOn, nil, 10 * time.Millisecond},
	}
	for _, step := range steps {
		if err := d.writeCommand(step.cmd, step.data...); err != nil {
			return fmt.Errorf("spi panel: init command 0x%02X failed: %w", step.cmd, err)
		}
		if step.pause > 0 {
			d.sleep(step.pause)
		}
	}

	logrus.Debugf("SPI panel %dx%d initialized", d.width, d.height)
	return nil
}

func (d *SpiPanel) writeCommand(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

func (d *SpiPanel) StartWrite() error {
	d.acquire()
	return nil
}

func (d *SpiPanel) EndWrite() error {
	return d.release()
}

// SetAddrWindow programs the column and row ranges then opens the RAM for writing.
func (d *SpiPanel) SetAddrWindow(x, y, w, h int) error {
	if err := d.check(); err != nil {
		return err
	}
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > d.width || y+h > d.height {
		return fmt.Errorf("%w: (%d,%d) %dx%d", ErrWindowOutOfBounds, x, y, w, h)
	}
	x1, y1 := x+w-1, y+h-1
	if err := d.writeCommand(cmdCaSet, byte(x>>8), byte(x), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.writeCommand(cmdRaSet, byte(y>>8), byte(y), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.writeCommand(cmdRamWr)
}

// PushColors streams pixels into the window, in transfers of at most spiMaxTx bytes.
func (d *SpiPanel) PushColors(px []lv.Color, swap bool) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(px) > 0 {
		n := len(px)
		if n > len(d.txBuf)/2 {
			n = len(d.txBuf) / 2
		}
		chunk := d.txBuf[:2*n]
		encodeColors(chunk, px[:n], swap)
		if err := d.c.Tx(chunk, nil); err != nil {
			return err
		}
		px = px[n:]
	}
	return nil
}

// Halt turns the panel off and puts it to sleep.
func (d *SpiPanel) Halt() error {
	d.acquire()
	defer d.release()
	if err := d.writeCommand(cmdDispOff); err != nil {
		return err
	}
	return d.writeCommand(cmdSlpIn)
}

func (d *SpiPanel) String() string {
	return fmt.Sprintf("device.SpiPanel{%dx%d}", d.width, d.height)
}
