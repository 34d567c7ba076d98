package event

import (
	"github.com/jypelle/tftbridge/apimodel"
	"image"
)

// Ticker
type TickerEvent struct {
	Data interface{}
}

type TickerEventIconToggleData struct{}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventIconToggleData struct{}

type ApiEventStatusData struct {
	Status chan apimodel.Status
}

type ApiEventScreenshotData struct {
	Image chan image.Image
}
