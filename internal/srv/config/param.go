package config

import (
	_ "embed"
	"errors"
	"fmt"
	"github.com/jypelle/tftbridge/internal/lv"
	"gopkg.in/yaml.v3"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

const (
	PanelSpi     = "spi"
	PanelSsd1306 = "ssd1306"
	PanelSim     = "sim"
)

var ErrInvalidParam = errors.New("invalid param")

type ServerParam struct {
	Screen   ScreenParam `yaml:"screen"`
	Panel    PanelParam  `yaml:"panel"`
	Timing   TimingParam `yaml:"timing"`
	Icon     IconParam   `yaml:"icon"`
	ApiParam ApiParam    `yaml:"api"`
}

type ScreenParam struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type PanelParam struct {
	Type    string `yaml:"type"`
	SpiBus  string `yaml:"spi_bus"`
	SpiHz   int64  `yaml:"spi_hz"`
	SpiMode int    `yaml:"spi_mode"`
	DcPin   string `yaml:"dc_pin"`
	RstPin  string `yaml:"rst_pin"`
	I2cBus  string `yaml:"i2c_bus"`
	// Send the high byte of each pixel first
	SwapBytes bool `yaml:"swap_bytes"`
}

type TimingParam struct {
	TickPeriodMs    int64 `yaml:"tick_period_ms"`
	TogglePeriodMs  int64 `yaml:"toggle_period_ms"`
	RefreshPeriodMs int64 `yaml:"refresh_period_ms"`
}

type IconParam struct {
	// 0 keeps every icon node ever created
	MaxNodes int `yaml:"max_nodes"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	Port    int64  `yaml:"port"`
	Tls     bool   `yaml:"tls"`
	ApiKey  string `yaml:"api_key"`
}

// ParseParam reads a param file on top of the embedded defaults and validates it.
func ParseParam(raw []byte) (*ServerParam, error) {
	param := &ServerParam{}
	if err := yaml.Unmarshal(ParamDefaultFile, param); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, param); err != nil {
		return nil, err
	}
	if err := param.Validate(); err != nil {
		return nil, err
	}
	return param, nil
}

func (p *ServerParam) Validate() error {
	if p.Screen.Width <= 0 || p.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen must be at least 1x1, got %dx%d", ErrInvalidParam, p.Screen.Width, p.Screen.Height)
	}
	// The draw buffer must hold at least one row
	if lv.BufferCapacity(p.Screen.Width, p.Screen.Height) < p.Screen.Width {
		return fmt.Errorf("%w: screen height must be at least %d", ErrInvalidParam, lv.BufferDivider)
	}

	switch p.Panel.Type {
	case PanelSpi:
		if p.Panel.SpiHz <= 0 {
			return fmt.Errorf("%w: spi_hz must be positive", ErrInvalidParam)
		}
		if p.Panel.SpiMode < 0 || p.Panel.SpiMode > 3 {
			return fmt.Errorf("%w: spi_mode must be between 0 and 3", ErrInvalidParam)
		}
		if p.Panel.DcPin == "" {
			return fmt.Errorf("%w: dc_pin is required for a spi panel", ErrInvalidParam)
		}
	case PanelSsd1306, PanelSim:
	default:
		return fmt.Errorf("%w: unknown panel type %q", ErrInvalidParam, p.Panel.Type)
	}

	if p.Timing.TickPeriodMs <= 0 || p.Timing.TogglePeriodMs <= 0 || p.Timing.RefreshPeriodMs <= 0 {
		return fmt.Errorf("%w: timing periods must be positive", ErrInvalidParam)
	}
	if p.Icon.MaxNodes < 0 {
		return fmt.Errorf("%w: icon max_nodes can't be negative", ErrInvalidParam)
	}
	return nil
}

func (t TimingParam) TickPeriod() time.Duration {
	return time.Duration(t.TickPeriodMs) * time.Millisecond
}

func (t TimingParam) TogglePeriod() time.Duration {
	return time.Duration(t.TogglePeriodMs) * time.Millisecond
}

func (t TimingParam) RefreshPeriod() time.Duration {
	return time.Duration(t.RefreshPeriodMs) * time.Millisecond
}
