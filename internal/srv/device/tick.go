package device

import (
	"github.com/jypelle/tftbridge/internal/lv"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// TickSource advances the renderer clock by a fixed period.
type TickSource struct {
	lock     sync.Mutex
	clock    *lv.Clock
	period   time.Duration
	periodMs uint32

	ticker *time.Ticker
	last   time.Time

	askDone chan bool
	done    chan bool
}

// NewTickSource builds a tick source; period is truncated to the millisecond.
func NewTickSource(clock *lv.Clock, period time.Duration) *TickSource {
	return &TickSource{
		clock:    clock,
		period:   period,
		periodMs: uint32(period / time.Millisecond),
		askDone:  make(chan bool),
		done:     make(chan bool),
	}
}

func (d *TickSource) Period() time.Duration {
	return d.period
}

// Tick advances the clock by exactly one period.
func (d *TickSource) Tick() {
	d.clock.Inc(d.periodMs)
}

func (d *TickSource) Start() {
	logrus.Infof("Start tick source (%v)", d.period)
	d.lock.Lock()
	defer d.lock.Unlock()

	d.last = time.Now()
	d.ticker = time.NewTicker(d.period)

	go func() {
		for loop := true; loop; {
			select {
			case now := <-d.ticker.C:
				d.lock.Lock()
				d.advance(now)
				d.lock.Unlock()
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

// advance ticks once per whole period elapsed since the last accounted instant.
// A time.Ticker drops ticks for slow receivers, this catches them up.
func (d *TickSource) advance(now time.Time) int {
	n := int(now.Sub(d.last) / d.period)
	for i := 0; i < n; i++ {
		d.Tick()
	}
	d.last = d.last.Add(time.Duration(n) * d.period)
	return n
}

func (d *TickSource) Stop() {
	logrus.Infof("Stop tick source")
	d.lock.Lock()
	d.ticker.Stop()
	d.lock.Unlock()

	d.askDone <- true
	<-d.done
}
