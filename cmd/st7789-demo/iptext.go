package main

import (
	"image"
	"image/color"
	"net"

	"github.com/BeatGlow/st7789/draw"
)

const ipNotFound = "IP NOT FOUND."

// ipTextOrigin is the top left corner of the IP address overlay.
var ipTextOrigin = image.Pt(0, 20)

// localIP returns the first non-loopback IPv4 address of the host.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ipNotFound
	}
	return firstIPv4(addrs)
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ipNotFound
}

// drawIP draws the host address and returns the area it covers.
func drawIP(dst draw.Image, face draw.Face, c color.Color) image.Rectangle {
	return draw.Text(dst, ipTextOrigin, face, c, localIP())
}
