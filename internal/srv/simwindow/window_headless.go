//go:build !amd64 || !cgo
// +build !amd64 !cgo

package simwindow

import (
	"github.com/sirupsen/logrus"
)

type platformWindow struct{}

func (w *Window) Start() {
	logrus.Infof("No desktop on this platform, %q runs headless", w.title)
}

func (w *Window) Invalidate() {
}

func (w *Window) Close() {
}
