// Package pixel implements the RGB565 color and image types used by ST7789 panels.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces. An [RGB565Image] stores its pixels big-endian, in
// the order the controller reads them from the bus, so its Pix can be written
// to the panel as is.
package pixel
