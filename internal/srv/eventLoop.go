package srv

import (
	"fmt"
	"github.com/jypelle/tftbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
	"time"
)

// eventLoop is the render context: the object tree and the display are only touched here.
func (s *ServerApp) eventLoop() {
	refreshTicker := time.NewTicker(s.Timing.RefreshPeriod())
	defer refreshTicker.Stop()

	// nil without api: never selected
	var apiEventChannel chan event.ApiEvent
	if s.apiDevice != nil {
		apiEventChannel = s.apiDevice.EventChannel()
	}

	for loop := true; loop; {
		select {
		case <-refreshTicker.C:
			s.refresh()
		case ev := <-s.iconTimer.EventChannel():
			switch ev.Data.(type) {
			case event.TickerEventIconToggleData:
				logrus.Debugf("Receive icon toggle event")
				s.iconToggle.OnTick()
			}
		case ev := <-apiEventChannel:
			ev.Result <- s.handleApiEvent(ev)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}

	// Last pending areas
	s.refresh()

	s.eventLoopDone <- true
}

func (s *ServerApp) handleApiEvent(ev event.ApiEvent) error {
	switch data := ev.Data.(type) {
	case event.ApiEventIconToggleData:
		s.iconToggle.OnTick()
	case event.ApiEventStatusData:
		data.Status <- s.status()
	case event.ApiEventScreenshotData:
		data.Image <- s.display.Snapshot()
	default:
		return fmt.Errorf("unsupported api event %T", data)
	}
	return nil
}

func (s *ServerApp) refresh() {
	if err := s.display.Refresh(); err != nil {
		logrus.Warnf("Display refresh failed: %v", err)
	}
}
