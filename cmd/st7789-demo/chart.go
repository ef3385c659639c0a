package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/st7789"
	"github.com/BeatGlow/st7789/draw"
	"github.com/BeatGlow/st7789/pixel"
)

// Chart layout, in pixels.
const (
	fontHeight = 10
	fontWidth  = 6
	tickLen    = 5
	lineWidth  = 1
)

// Values are plotted between 0 and maxValue.
const maxValue = 2000.0

// axis is the geometry of a chart plotting inner.Dx() samples, placed at the
// bottom of its bounds with room for the tick labels on the left and below.
type axis struct {
	inner     image.Rectangle // plot area
	xLineY    int
	xLineX0   int
	xLineX1   int
	xTickStep int
	yLineX    int
	yLineY0   int
	yLineY1   int
	yTickStep int
}

func newAxis(bounds image.Rectangle, width, height int) axis {
	var (
		xTextY = bounds.Max.Y - fontHeight
		xTickY = xTextY - tickLen
		xLineY = xTickY - lineWidth
		yTextX = bounds.Min.X + fontWidth*3
		yTickX = yTextX + tickLen
		yLineX = yTickX + lineWidth - 1
		x0     = yLineX + 1
		y0     = xLineY - height - 1
	)
	return axis{
		inner:     image.Rect(x0, y0, x0+width, y0+height),
		xLineY:    xLineY,
		xLineX0:   x0,
		xLineX1:   x0 + width,
		xTickStep: int(math.Round(float64(width) / 10)),
		yLineX:    yLineX,
		yLineY0:   xLineY - height - 1,
		yLineY1:   xLineY,
		yTickStep: int(math.Round(float64(height) / 10)),
	}
}

// lineChart is a rolling line chart: once the plot area is full it is
// cleared and plotting restarts on the left.
type lineChart struct {
	axis     axis
	face     draw.Face
	prev     image.Point
	started  bool
	count    int
	interval time.Duration // time between two samples, for the x labels
}

func newLineChart(bounds image.Rectangle, face draw.Face, interval time.Duration) *lineChart {
	return &lineChart{
		axis:     newAxis(bounds, 200, 120),
		face:     face,
		interval: interval,
	}
}

// y returns the row of value v, clamped to the plot area.
func (c *lineChart) y(v float64) int {
	h := float64(c.axis.inner.Dy())
	y := h - h/maxValue*v
	return c.axis.inner.Min.Y + int(math.Round(min(max(y, 0), h)))
}

// plot adds a sample and returns the area of dst that changed.
func (c *lineChart) plot(dst draw.Image, v float64) image.Rectangle {
	var (
		y     = c.y(v)
		width = c.axis.inner.Dx()
	)
	switch {
	case !c.started:
		c.started = true
		c.prev = image.Pt(c.axis.inner.Min.X+c.count, y)
		c.clearData(dst)
		c.drawAxis(dst)
		return dst.Bounds()

	case c.count < width:
		c.count++
		cur := image.Pt(c.axis.inner.Min.X+c.count, y)
		draw.Polyline(dst, []image.Point{c.prev, cur}, pixel.Red)
		r := image.Rectangle{Min: c.prev, Max: cur}.Canon()
		c.prev = cur
		r.Max = r.Max.Add(image.Pt(1, 1))
		return r

	default:
		c.count = 0
		c.prev = image.Pt(c.axis.inner.Min.X, y)
		return c.clearData(dst)
	}
}

func (c *lineChart) clearData(dst draw.Image) image.Rectangle {
	r := image.Rectangle{
		Min: c.axis.inner.Min,
		Max: c.axis.inner.Max.Add(image.Pt(1, 1)),
	}
	draw.Box(dst, r, pixel.Black)
	return r
}

func (c *lineChart) drawAxis(dst draw.Image) {
	a := c.axis
	seconds := float64(a.inner.Dx()) * c.interval.Seconds() / 10
	for i, x := 0, a.xLineX0; x <= a.xLineX1; i, x = i+1, x+a.xTickStep {
		draw.VerticalLine(dst, x, a.xLineY, tickLen+1, pixel.Green)
		label := strconv.FormatFloat(float64(i)*seconds, 'f', -1, 64)
		draw.Text(dst, image.Pt(x-fontWidth/2, a.xLineY+tickLen), c.face, pixel.White, label)
	}
	draw.Line(dst, image.Pt(a.xLineX0, a.xLineY), image.Pt(a.xLineX1, a.xLineY), pixel.Green)

	for i, y := 0, a.yLineY1-1; y >= a.yLineY0; i, y = i+1, y-a.yTickStep {
		draw.HorizontalLine(dst, a.yLineX-tickLen, y, tickLen+1, pixel.Green)
		draw.Text(dst, image.Pt(0, y-fontHeight/2), c.face, pixel.White, strconv.Itoa(i*10))
	}
	draw.Line(dst, image.Pt(a.yLineX, a.yLineY0), image.Pt(a.yLineX, a.yLineY1), pixel.Green)
}

// dataFeeder reads one value per line from a file, starting over at the end.
type dataFeeder struct {
	name    string
	f       *os.File
	scanner *bufio.Scanner
}

func newDataFeeder(name string) (*dataFeeder, error) {
	d := &dataFeeder{name: name}
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *dataFeeder) open() error {
	f, err := os.Open(d.name)
	if err != nil {
		return err
	}
	if d.f != nil {
		_ = d.f.Close()
	}
	d.f, d.scanner = f, bufio.NewScanner(f)
	return nil
}

// read returns the next value. At the end of the file it starts over and
// returns 0; blank lines are 0 too.
func (d *dataFeeder) read() (float64, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return 0, err
		}
		logrus.Debugf("%s reached end", d.name)
		return 0, d.open()
	}
	line := strings.TrimSpace(d.scanner.Text())
	if line == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", d.name, err)
	}
	return v, nil
}

func (d *dataFeeder) Close() error {
	return d.f.Close()
}

type chartConfig struct {
	data       string
	key1, key2 string
	interval   time.Duration
}

// runChart plots the values of the data file. KEY1 draws the host address on
// top of the chart, KEY2 removes it.
func runChart(ctx context.Context, dev *st7789.Dev, config chartConfig) error {
	feeder, err := newDataFeeder(config.data)
	if err != nil {
		return err
	}
	defer feeder.Close()

	key1, err := newButton(config.key1)
	if err != nil {
		return err
	}
	key2, err := newButton(config.key2)
	if err != nil {
		return err
	}
	go key1.watch(ctx)
	go key2.watch(ctx)

	if err = dev.SetTearingEffect(st7789.TearingHorizontalAndVertical); err != nil {
		return err
	}

	var (
		canvas = pixel.NewRGB565Image(dev.Bounds().Dx(), dev.Bounds().Dy())
		chart  = newLineChart(canvas.Bounds(), draw.MonoFace(fontHeight), config.interval)
		ipFace = draw.MonoFace(20)
		ipBox  image.Rectangle
		ticker = time.NewTicker(config.interval)
	)
	defer ticker.Stop()

	canvas.Fill(pixel.Blue)
	if err = dev.Draw(canvas.Bounds(), canvas, image.Point{}); err != nil {
		return err
	}

	update := func(r image.Rectangle) error {
		return dev.Draw(r, canvas, r.Min)
	}

	logrus.Infoln("Plotting, hit control-c to stop...")
	for {
		if key1.take() {
			ipBox = drawIP(canvas, ipFace, pixel.Red)
			if err = update(ipBox); err != nil {
				return err
			}
		}
		if key2.take() && !ipBox.Empty() {
			draw.Box(canvas, ipBox, pixel.Blue)
			if err = update(ipBox); err != nil {
				return err
			}
			ipBox = image.Rectangle{}
		}

		v, err := feeder.read()
		if err != nil {
			return err
		}
		if err = update(chart.plot(canvas, v)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
