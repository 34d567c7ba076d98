package srv

import (
	"fmt"
	"github.com/jypelle/tftbridge/apimodel"
	"github.com/jypelle/tftbridge/internal/images"
	"github.com/jypelle/tftbridge/internal/lv"
	"github.com/jypelle/tftbridge/internal/srv/config"
	"github.com/jypelle/tftbridge/internal/srv/device"
	"github.com/jypelle/tftbridge/internal/srv/simwindow"
	"github.com/jypelle/tftbridge/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig

	panel       *panel
	flushBridge *device.FlushBridge
	display     *lv.Display
	tickSource  *device.TickSource
	iconToggle  *device.IconToggle
	iconTimer   *device.IconTimer
	apiDevice   *device.Api
	simWindow   *simwindow.Window

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of tftbridge server %s ...", version.AppVersion.String())

	serverConfig := config.NewServerConfig(configDir, debugMode, simulationMode)

	p, err := openPanel(serverConfig.Screen, serverConfig.Panel)
	if err != nil {
		logrus.Fatalf("Unable to open %s panel: %v\n", serverConfig.Panel.Type, err)
	}

	app := newServerApp(serverConfig, p)

	logrus.Debugln("Server created")

	return app
}

func newServerApp(serverConfig *config.ServerConfig, p *panel) *ServerApp {
	app := &ServerApp{
		ServerConfig:     serverConfig,
		panel:            p,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
	}

	width, height := app.Screen.Width, app.Screen.Height

	app.flushBridge = device.NewFlushBridge(p, width, height, app.Panel.SwapBytes)
	app.display = lv.NewDisplay(width, height, lv.NewDrawBuffer(lv.BufferCapacity(width, height)), app.flushBridge)
	app.tickSource = device.NewTickSource(app.display.Clock(), app.Timing.TickPeriod())
	app.iconToggle = device.NewIconToggle(app.display.Screen(), images.Test1, images.Test3, app.Icon.MaxNodes)
	app.iconTimer = device.NewIconTimer(app.Timing.TogglePeriod())

	if app.ApiParam.Enabled {
		app.apiDevice = device.NewApi(app.ServerConfig)
	}

	if p.sim != nil {
		app.simWindow = simwindow.New("tftbridge", width, height, p.sim.Snapshot)
		p.sim.SetOnFrame(app.simWindow.Invalidate)
	}

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting tftbridge server on %v ...", s.panel.Transport)

	logrus.Printf("Starting devices ...")

	// Start simulation window
	if s.simWindow != nil {
		s.simWindow.Start()
	}

	// Start tick source
	s.tickSource.Start()

	// Start event loop
	go s.eventLoop()

	// Start icon timer
	s.iconTimer.Start()

	// Start api device
	if s.apiDevice != nil {
		s.apiDevice.Start()
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping tftbridge server ...")

	// Stop api
	if s.apiDevice != nil {
		s.apiDevice.StopSendingEvent()
	}

	// Stop icon timer
	s.iconTimer.StopSendingEvent()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Stop tick source
	s.tickSource.Stop()

	// Turn the panel off
	s.panel.shutdown()

	if s.simWindow != nil {
		s.simWindow.Close()
	}

	logrus.Printf("Server stopped")
}

// status must run on the event loop.
func (s *ServerApp) status() apimodel.Status {
	var current string
	if src := s.iconToggle.Current(); src != nil {
		current = src.Name
	}

	return apimodel.Status{
		Version: version.AppVersion.String(),
		Screen: apimodel.ScreenStatus{
			Width:          s.display.Width(),
			Height:         s.display.Height(),
			BufferCapacity: s.display.Buffer().Capacity(),
			Panel:          fmt.Sprint(s.panel.Transport),
		},
		Flush: s.flushBridge.Stats(),
		Clock: apimodel.ClockStatus{
			TickPeriodMs: s.Timing.TickPeriodMs,
			NowMs:        s.display.Clock().Now(),
		},
		Icon: apimodel.IconStatus{
			Toggles: s.iconToggle.Count(),
			Nodes:   s.iconToggle.Nodes(),
			Current: current,
		},
	}
}
