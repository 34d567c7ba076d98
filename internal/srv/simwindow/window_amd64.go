//go:build amd64 && cgo
// +build amd64,cgo

package simwindow

import (
	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
)

type platformWindow struct {
	win *app.Window
}

func (w *Window) Start() {
	size := w.Size()
	w.win = app.NewWindow(
		app.Title(w.title),
		app.Size(unit.Px(float32(size.X)), unit.Px(float32(size.Y))),
		app.MinSize(unit.Px(float32(w.width)), unit.Px(float32(w.height))),
	)
	go func() {
		if err := w.loop(); err != nil {
			logrus.Fatalf("Simulation window: %v", err)
		}
	}()
	go app.Main()
}

func (w *Window) Invalidate() {
	if w.win != nil {
		w.win.Invalidate()
	}
}

func (w *Window) Close() {
	if w.win != nil {
		w.win.Close()
	}
}

func (w *Window) loop() error {
	var ops op.Ops
	for e := range w.win.Events() {
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			img := widget.Image{Src: paint.NewImageOp(w.source()), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
	return nil
}
