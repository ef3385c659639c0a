// Command spidev-info opens a raw spidev bus, applies the ST7789 bus settings
// and prints what the kernel reports.
package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/st7789/conn"
)

func main() {
	busFlag := flag.Int("bus", 0, "SPI bus")
	deviceFlag := flag.Int("device", 0, "SPI device")
	speedFlag := flag.Uint("speed", 40, "SPI clock speed in MHz")
	flag.Parse()

	c, err := conn.OpenSPI(*busFlag, *deviceFlag)
	if err != nil {
		logrus.Fatalln("Open failed:", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logrus.Errorln("Close failed:", err)
		}
	}()

	cfg := conn.DefaultSPIConfig
	cfg.MaxSpeedHz = uint32(*speedFlag) * 1_000_000
	if err = c.Configure(cfg); err != nil {
		logrus.Errorln("Configure failed:", err)
		return
	}

	fmt.Println("connected using", c)
	fmt.Printf("mode %d, %d bits per word, %d Hz\n", cfg.Mode, cfg.BitsPerWord, cfg.MaxSpeedHz)
	fmt.Println("max transfer size", c.MaxTxSize(), "bytes")
	fmt.Println("duplex", c.Duplex())
}
