// Command st7789-demo drives an ST7789 panel, such as the Waveshare 1.3" LCD HAT.
//
// Usage:
//
//	st7789-demo [flags] colors|chart|mirror
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/st7789"
	spidev "github.com/BeatGlow/st7789/conn"
)

func main() {
	spiFlag := flag.String("spi", "", "SPI port name (default: first available)")
	spidevFlag := flag.String("spidev", "", "use the raw spidev bus <bus>.<device> instead of periph's SPI drivers")
	speedFlag := flag.Int("speed", 40, "SPI clock speed in MHz")
	resetPinFlag := flag.String("rst", "GPIO27", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO25", "Data/Command GPIO pin (DC)")
	blPinFlag := flag.String("bl", "GPIO24", "Backlight GPIO pin")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin, if not driven by the SPI controller")
	key1PinFlag := flag.String("key1", "GPIO21", "Button toggling the IP address overlay (chart)")
	key2PinFlag := flag.String("key2", "GPIO20", "Button clearing the IP address overlay (chart)")
	widthFlag := flag.Int("width", 240, "Display width")
	heightFlag := flag.Int("height", 240, "Display height")
	orientationFlag := flag.String("orientation", "landscape", "Display orientation: portrait, landscape, portrait-swapped or landscape-swapped")
	dataFlag := flag.String("data", "test.txt", "Chart data file, one value per line (chart)")
	fbFlag := flag.String("fb", "/dev/fb0", "Framebuffer device (mirror)")
	intervalFlag := flag.Duration("interval", 200*time.Millisecond, "Refresh interval")
	verboseFlag := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] colors|chart|mirror\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	orientation, err := parseOrientation(*orientationFlag)
	if err != nil {
		logrus.Fatal(err)
	}

	if _, err := host.Init(); err != nil {
		logrus.Fatalln("Unable to initialize periph:", err)
	}

	pins := st7789.Pins{
		Reset:     pinByName(*resetPinFlag),
		DC:        pinByName(*dcPinFlag),
		Backlight: pinByName(*blPinFlag),
		CS:        pinByName(*csPinFlag),
	}

	var (
		width  = uint16(*widthFlag)
		height = uint16(*heightFlag)
		dev    *st7789.Dev
	)
	if *spidevFlag != "" {
		var c conn.Conn
		if c, err = openSPIDev(*spidevFlag, uint32(*speedFlag)*1_000_000); err != nil {
			logrus.Fatal(err)
		}
		dev = st7789.New(c, pins, width, height)
		dev.SetLogger(logrus.WithField("device", "st7789"))
	} else {
		p, err := spireg.Open(*spiFlag)
		if err != nil {
			logrus.Fatal(err)
		}
		defer p.Close()
		dev, err = st7789.NewSPI(p, pins, &st7789.Opts{
			Width:  width,
			Height: height,
			Speed:  physic.Frequency(*speedFlag) * physic.MegaHertz,
			Logger: logrus.WithField("device", "st7789"),
		})
		if err != nil {
			logrus.Fatal(err)
		}
	}
	logrus.Infof("Using %s", dev)

	logrus.Infoln("Initializing LCD")
	if err = dev.Init(st7789.HostDelay); err != nil {
		logrus.Fatal(err)
	}
	if err = dev.SetOrientation(orientation); err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch mode := strings.ToLower(flag.Arg(0)); mode {
	case "colors":
		err = runColors(ctx, dev, *intervalFlag)
	case "chart":
		err = runChart(ctx, dev, chartConfig{
			data:     *dataFlag,
			key1:     *key1PinFlag,
			key2:     *key2PinFlag,
			interval: *intervalFlag,
		})
	case "mirror":
		err = runMirror(ctx, dev, *fbFlag, *intervalFlag)
	default:
		err = fmt.Errorf("unsupported mode %q", mode)
	}
	if err != nil {
		logrus.Error(err)
	}

	if err := dev.Halt(); err != nil {
		logrus.Warnf("Halt: %v", err)
	}
	if err := dev.SetBacklight(st7789.BacklightOff, st7789.HostDelay); err != nil {
		logrus.Warnf("Backlight: %v", err)
	}
	if err != nil {
		os.Exit(1)
	}
}

// pinByName returns the named pin, or nil for an empty name.
func pinByName(name string) gpio.PinOut {
	if name == "" || strings.EqualFold(name, "none") {
		return nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		logrus.Fatalf("Unknown GPIO pin %q", name)
	}
	return p
}

func parseOrientation(s string) (st7789.Orientation, error) {
	switch strings.ToLower(s) {
	case "portrait", "0":
		return st7789.Portrait, nil
	case "landscape", "90":
		return st7789.Landscape, nil
	case "portrait-swapped", "180":
		return st7789.PortraitSwapped, nil
	case "landscape-swapped", "270":
		return st7789.LandscapeSwapped, nil
	default:
		return 0, fmt.Errorf("invalid orientation %q specified", s)
	}
}

func openSPIDev(name string, hz uint32) (conn.Conn, error) {
	var bus, device int
	if _, err := fmt.Sscanf(name, "%d.%d", &bus, &device); err != nil {
		return nil, fmt.Errorf("invalid spidev %q, expected <bus>.<device>", name)
	}
	c, err := spidev.OpenSPI(bus, device)
	if err != nil {
		return nil, err
	}
	cfg := spidev.DefaultSPIConfig
	cfg.MaxSpeedHz = hz
	if err = c.Configure(cfg); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
