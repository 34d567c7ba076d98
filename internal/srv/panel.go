package srv

import (
	"fmt"
	"github.com/jypelle/tftbridge/internal/srv/config"
	"github.com/jypelle/tftbridge/internal/srv/device"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// panel is the transport picked by configuration, with its teardown.
type panel struct {
	device.Transport

	// Set for the simulated panel only
	sim *device.SimPanel

	halt  func() error
	close func() error
}

func openPanel(screen config.ScreenParam, param config.PanelParam) (*panel, error) {
	switch param.Type {
	case config.PanelSim:
		sim := device.NewSimPanel(screen.Width, screen.Height)
		return &panel{Transport: sim, sim: sim}, nil

	case config.PanelSpi:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("unable to init host drivers: %w", err)
		}
		dc := gpioreg.ByName(param.DcPin)
		if dc == nil {
			return nil, fmt.Errorf("unknown dc pin %q", param.DcPin)
		}
		var rst gpio.PinOut
		if param.RstPin != "" {
			rstPin := gpioreg.ByName(param.RstPin)
			if rstPin == nil {
				return nil, fmt.Errorf("unknown rst pin %q", param.RstPin)
			}
			rst = rstPin
		}

		port, err := spireg.Open(param.SpiBus)
		if err != nil {
			return nil, fmt.Errorf("unable to open spi bus: %w", err)
		}
		d, err := device.NewSpiPanel(port, dc, &device.SpiOpts{
			W:    screen.Width,
			H:    screen.Height,
			Hz:   param.SpiHz,
			Mode: param.SpiMode,
			RST:  rst,
		})
		if err != nil {
			port.Close()
			return nil, err
		}
		return &panel{Transport: d, halt: d.Halt, close: port.Close}, nil

	case config.PanelSsd1306:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("unable to init host drivers: %w", err)
		}
		b, err := i2creg.Open(param.I2cBus)
		if err != nil {
			return nil, fmt.Errorf("unable to open i2c bus: %w", err)
		}
		d, err := device.NewOledPanel(b, screen.Width, screen.Height)
		if err != nil {
			b.Close()
			return nil, err
		}
		return &panel{Transport: d, halt: d.Halt, close: b.Close}, nil
	}

	return nil, fmt.Errorf("%w: unknown panel type %q", config.ErrInvalidParam, param.Type)
}

// shutdown turns the panel off and frees its bus.
func (p *panel) shutdown() {
	if p.halt != nil {
		if err := p.halt(); err != nil {
			logrus.Warnf("Unable to halt %v: %v", p.Transport, err)
		}
	}
	if p.close != nil {
		if err := p.close(); err != nil {
			logrus.Warnf("Unable to close the bus of %v: %v", p.Transport, err)
		}
	}
}
