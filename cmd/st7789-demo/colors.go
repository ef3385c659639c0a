package main

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/st7789"
	"github.com/BeatGlow/st7789/draw"
	"github.com/BeatGlow/st7789/pixel"
)

var colorCycle = []pixel.RGB565{
	pixel.Black,
	pixel.Red,
	pixel.Green,
	pixel.Blue,
	pixel.Yellow,
	pixel.Magenta,
	pixel.Cyan,
	pixel.White,
}

// runColors fills the panel with each color of colorCycle in turn, with the
// host address on top.
func runColors(ctx context.Context, dev *st7789.Dev, interval time.Duration) error {
	var (
		face   = draw.MonoFace(20)
		ticker = time.NewTicker(interval)
		text   = pixel.NewRGB565Image(dev.Bounds().Dx(), face.Metrics().Height.Ceil())
	)
	defer ticker.Stop()

	logrus.Infoln("Cycling colors, hit control-c to stop...")
	for i := 0; ; i = (i + 1) % len(colorCycle) {
		bg := colorCycle[i]
		if err := dev.Clear(bg); err != nil {
			return err
		}

		fg := pixel.Red
		if bg == pixel.Red {
			fg = pixel.White
		}
		draw.Fill(text, bg)
		r := draw.Text(text, image.Point{}, face, fg, localIP()).Intersect(text.Bounds())
		if !r.Empty() {
			if err := dev.Draw(r.Add(ipTextOrigin), text, r.Min); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
