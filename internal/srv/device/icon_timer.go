package device

import (
	"github.com/jypelle/tftbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// IconTimer posts an icon toggle event at a fixed period.
type IconTimer struct {
	lock         sync.RWMutex
	eventChannel chan event.TickerEvent

	period time.Duration
	ticker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewIconTimer(period time.Duration) *IconTimer {
	return &IconTimer{
		eventChannel: make(chan event.TickerEvent),
		period:       period,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
}

func (d *IconTimer) Start() {
	logrus.Infof("Start icon timer (%v)", d.period)
	d.lock.Lock()
	defer d.lock.Unlock()

	d.ticker = time.NewTicker(d.period)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.ticker.C:
				select {
				case d.eventChannel <- event.TickerEvent{Data: event.TickerEventIconToggleData{}}:
				case <-d.askDone:
					loop = false
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *IconTimer) StopSendingEvent() {
	logrus.Infof("Stop icon timer")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.ticker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *IconTimer) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
