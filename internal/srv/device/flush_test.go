package device

import (
	"errors"
	"github.com/jypelle/tftbridge/internal/lv"
	"testing"
)

type window struct {
	x, y, w, h int
}

// mockTransport records every call and fails on demand.
type mockTransport struct {
	startErr, windowErr, pushErr, endErr error

	open    bool
	starts  int
	ends    int
	windows []window
	pushes  int
	pushed  []lv.Color
	swaps   []bool
	misuse  []string
}

func (m *mockTransport) StartWrite() error {
	if m.startErr != nil {
		return m.startErr
	}
	if m.open {
		m.misuse = append(m.misuse, "nested StartWrite")
	}
	m.open = true
	m.starts++
	return nil
}

func (m *mockTransport) SetAddrWindow(x, y, w, h int) error {
	if !m.open {
		m.misuse = append(m.misuse, "SetAddrWindow outside transaction")
	}
	if w <= 0 || h <= 0 {
		m.misuse = append(m.misuse, "empty window")
	}
	m.windows = append(m.windows, window{x, y, w, h})
	return m.windowErr
}

func (m *mockTransport) PushColors(px []lv.Color, swap bool) error {
	if !m.open {
		m.misuse = append(m.misuse, "PushColors outside transaction")
	}
	m.pushes++
	m.swaps = append(m.swaps, swap)
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, px...)
	return nil
}

func (m *mockTransport) EndWrite() error {
	if !m.open {
		m.misuse = append(m.misuse, "EndWrite outside transaction")
	}
	m.open = false
	m.ends++
	return m.endErr
}

// lend fills a lease with increasing pixel values.
func lend(t *testing.T, buf *lv.DrawBuffer, n int) *lv.Lease {
	t.Helper()
	lease, err := buf.Lend(n)
	if err != nil {
		t.Fatalf("Lend(%d) failed: %v", n, err)
	}
	for i := range lease.Pixels() {
		lease.Pixels()[i] = lv.Color(i)
	}
	return lease
}

func assertReleasedOnce(t *testing.T, lease *lv.Lease) {
	t.Helper()
	if !lease.Released() {
		t.Fatal("lease not released by Flush")
	}
	if err := lease.Release(); !errors.Is(err, lv.ErrLeaseReleased) {
		t.Errorf("lease released %v, want exactly once", err)
	}
}

func TestFlushValidAreas(t *testing.T) {
	tests := []struct {
		name string
		area lv.Area
		want window
	}{
		{"single pixel", lv.Area{X1: 10, Y1: 20, X2: 10, Y2: 20}, window{10, 20, 1, 1}},
		{"corner", lv.Area{X1: 230, Y1: 230, X2: 239, Y2: 239}, window{230, 230, 10, 10}},
		{"capacity strip", lv.Area{X1: 0, Y1: 0, X2: 239, Y2: 23}, window{0, 0, 240, 24}},
		{"column", lv.Area{X1: 5, Y1: 0, X2: 5, Y2: 239}, window{5, 0, 1, 240}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{}
			bridge := NewFlushBridge(transport, 240, 240, true)
			buf := lv.NewDrawBuffer(lv.BufferCapacity(240, 240))
			lease := lend(t, buf, tt.area.Size())

			bridge.Flush(tt.area, lease)

			if len(transport.windows) != 1 || transport.windows[0] != tt.want {
				t.Errorf("windows = %v, want [%v]", transport.windows, tt.want)
			}
			if transport.starts != 1 || transport.ends != 1 {
				t.Errorf("StartWrite/EndWrite = %d/%d, want 1/1", transport.starts, transport.ends)
			}
			if len(transport.misuse) != 0 {
				t.Errorf("transport misuse: %v", transport.misuse)
			}
			if len(transport.pushed) != tt.area.Size() {
				t.Errorf("pushed %d pixels, want %d", len(transport.pushed), tt.area.Size())
			}
			for i, c := range transport.pushed {
				if c != lv.Color(i) {
					t.Fatalf("pixel %d = %d, want %d", i, c, i)
				}
			}
			assertReleasedOnce(t, lease)

			if stats := bridge.Stats(); stats.Flushed != 1 || stats.Pixels != uint64(tt.area.Size()) {
				t.Errorf("Stats() = %+v", stats)
			}
		})
	}
}

func TestFlushCapacityBoundary(t *testing.T) {
	transport := &mockTransport{}
	bridge := NewFlushBridge(transport, 240, 240, true)
	buf := lv.NewDrawBuffer(lv.BufferCapacity(240, 240))
	area := lv.Area{X1: 0, Y1: 0, X2: 239, Y2: 23}

	if area.Size() != buf.Capacity() {
		t.Fatalf("area holds %d pixels, capacity is %d", area.Size(), buf.Capacity())
	}
	lease := lend(t, buf, buf.Capacity())
	bridge.Flush(area, lease)

	if len(transport.pushed) != 5760 {
		t.Errorf("pushed %d pixels, want 5760", len(transport.pushed))
	}
	if stats := bridge.Stats(); stats.Rejected != 0 || stats.Dropped != 0 {
		t.Errorf("Stats() = %+v, want no failure", stats)
	}
	assertReleasedOnce(t, lease)
}

func TestFlushSwapFlag(t *testing.T) {
	for _, swap := range []bool{true, false} {
		transport := &mockTransport{}
		bridge := NewFlushBridge(transport, 16, 16, swap)
		lease := lend(t, lv.NewDrawBuffer(16), 4)
		bridge.Flush(lv.Area{X1: 0, Y1: 0, X2: 3, Y2: 0}, lease)
		if len(transport.swaps) != 1 || transport.swaps[0] != swap {
			t.Errorf("swap flags = %v, want [%v]", transport.swaps, swap)
		}
	}
}

func TestFlushTransportErrors(t *testing.T) {
	busErr := errors.New("spi: bus error")

	tests := []struct {
		name      string
		transport *mockTransport
		wantEnds  int
	}{
		{"start fails", &mockTransport{startErr: busErr}, 0},
		{"window fails", &mockTransport{windowErr: busErr}, 1},
		{"push fails", &mockTransport{pushErr: busErr}, 1},
		{"end fails", &mockTransport{endErr: busErr}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := NewFlushBridge(tt.transport, 240, 240, true)
			buf := lv.NewDrawBuffer(lv.BufferCapacity(240, 240))
			area := lv.Area{X1: 0, Y1: 0, X2: 99, Y2: 9}
			lease := lend(t, buf, area.Size())

			err := bridge.flush(area, lease.Pixels())
			if !errors.Is(err, busErr) {
				t.Errorf("flush() error = %v, want %v", err, busErr)
			}

			bridge.Flush(area, lease)
			assertReleasedOnce(t, lease)
			if buf.Busy() {
				t.Error("buffer still busy after a failed flush")
			}

			if tt.transport.ends != 2*tt.wantEnds {
				t.Errorf("EndWrite calls = %d, want %d", tt.transport.ends, 2*tt.wantEnds)
			}
			if tt.transport.open {
				t.Error("transaction left open")
			}
			if stats := bridge.Stats(); stats.Dropped != 1 || stats.Flushed != 0 {
				t.Errorf("Stats() = %+v, want 1 dropped", stats)
			}
		})
	}
}

func TestFlushRejectedAreas(t *testing.T) {
	maxInt := int(^uint(0) >> 1)
	huge := maxInt/2 + 1

	tests := []struct {
		name    string
		area    lv.Area
		lent    int
		wantErr error
	}{
		{"x2 before x1", lv.Area{X1: 10, Y1: 0, X2: 9, Y2: 5}, 100, ErrMalformedArea},
		{"y2 before y1", lv.Area{X1: 0, Y1: 5, X2: 5, Y2: 4}, 100, ErrMalformedArea},
		{"off screen", lv.Area{X1: 240, Y1: 0, X2: 250, Y2: 5}, 100, ErrAreaOffScreen},
		{"negative", lv.Area{X1: -20, Y1: -20, X2: -1, Y2: -1}, 400, ErrAreaOffScreen},
		{"more than lent", lv.Area{X1: 0, Y1: 0, X2: 239, Y2: 1}, 100, ErrAreaTooLarge},
		{"width wraps negative", lv.Area{X1: -huge, Y1: 0, X2: huge, Y2: 0}, 100, ErrAreaTooLarge},
		{"width wraps to zero", lv.Area{X1: -maxInt - 1, Y1: 0, X2: maxInt, Y2: 0}, 100, ErrAreaTooLarge},
		{"height wraps negative", lv.Area{X1: 0, Y1: -huge, X2: 0, Y2: huge}, 100, ErrAreaTooLarge},
		{"size overflows", lv.Area{X1: -1 << 15, Y1: -1 << 15, X2: 1<<15 - 1, Y2: 1<<15 - 1}, 100, ErrAreaTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{}
			bridge := NewFlushBridge(transport, 240, 240, true)
			lease := lend(t, lv.NewDrawBuffer(lv.BufferCapacity(240, 240)), tt.lent)

			if err := bridge.flush(tt.area, lease.Pixels()); !errors.Is(err, tt.wantErr) {
				t.Errorf("flush() error = %v, want %v", err, tt.wantErr)
			}
			bridge.Flush(tt.area, lease)

			if transport.starts != 0 || len(transport.windows) != 0 || transport.pushes != 0 {
				t.Errorf("rejected area reached the transport: %+v", transport)
			}
			assertReleasedOnce(t, lease)
			if stats := bridge.Stats(); stats.Rejected != 1 {
				t.Errorf("Stats() = %+v, want 1 rejected", stats)
			}
		})
	}
}

func TestFlushClampsPartiallyOffScreen(t *testing.T) {
	transport := &mockTransport{}
	bridge := NewFlushBridge(transport, 10, 10, true)
	// 4x2 area, the two right columns are off screen
	area := lv.Area{X1: 8, Y1: 8, X2: 11, Y2: 9}
	lease := lend(t, lv.NewDrawBuffer(10), area.Size())

	bridge.Flush(area, lease)

	if len(transport.windows) != 1 || transport.windows[0] != (window{8, 8, 2, 2}) {
		t.Errorf("windows = %v, want [{8 8 2 2}]", transport.windows)
	}
	want := []lv.Color{0, 1, 4, 5}
	if len(transport.pushed) != len(want) {
		t.Fatalf("pushed = %v, want %v", transport.pushed, want)
	}
	for i := range want {
		if transport.pushed[i] != want[i] {
			t.Errorf("pushed = %v, want %v", transport.pushed, want)
			break
		}
	}
	if transport.ends != 1 {
		t.Errorf("EndWrite calls = %d, want 1", transport.ends)
	}
	assertReleasedOnce(t, lease)
	if stats := bridge.Stats(); stats.Flushed != 1 || stats.Pixels != 4 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestFlushDrivesRenderer(t *testing.T) {
	panel := NewSimPanel(32, 32)
	bridge := NewFlushBridge(panel, 32, 32, true)
	disp := lv.NewDisplay(32, 32, lv.NewDrawBuffer(lv.BufferCapacity(32, 32)), bridge)

	icon := lv.NewImage(disp.Screen())
	icon.SetPos(4, 4)
	icon.SetSrc(&lv.ImageDsc{Name: "white", W: 8, H: 8, Data: whitePixels(64)})

	if err := disp.Refresh(); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	shot := panel.Snapshot()
	want := disp.Snapshot()
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if lv.ColorFromRGBA(shot.At(x, y)) != lv.ColorFromRGBA(want.At(x, y)) {
				t.Fatalf("panel pixel (%d,%d) = %v, renderer has %v", x, y, shot.At(x, y), want.At(x, y))
			}
		}
	}
	if stats := bridge.Stats(); stats.Pixels != 32*32 || stats.Dropped != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func whitePixels(n int) []lv.Color {
	px := make([]lv.Color, n)
	for i := range px {
		px[i] = lv.ColorWhite
	}
	return px
}
