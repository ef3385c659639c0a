package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/st7789"
	"github.com/BeatGlow/st7789/framebuffer"
)

// runMirror copies the top left part of a framebuffer to the panel.
func runMirror(ctx context.Context, dev *st7789.Dev, name string, interval time.Duration) error {
	fb, err := framebuffer.Open(name)
	if err != nil {
		return err
	}
	defer fb.Close()
	logrus.Infof("Mirroring %s (%s, %s)", name, fb.Bounds().Size(), fb.Format())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err = dev.Draw(dev.Bounds(), fb, fb.Bounds().Min); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
