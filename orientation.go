package st7789

// nativeLines is the number of lines the controller addresses natively.
const nativeLines = 320

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                    byte = 1 << iota // D0: reserved
	_                                     // D1: reserved
	madctlLatchOrder                      // D2: MH
	madctlBGR                             // D3: RGB
	madctlLineOrder                       // D4: ML
	madctlPageColumnSwap                  // D5: MV
	madctlColumnOrder                     // D6: MX
	madctlPageOrder                       // D7: MY
)

// Orientation is the display rotation and mirroring, its value is the MADCTL
// byte written to the controller.
type Orientation byte

// Supported orientations.
const (
	Portrait         = Orientation(0)
	Landscape        = Orientation(madctlColumnOrder | madctlPageColumnSwap)
	PortraitSwapped  = Orientation(madctlPageOrder | madctlColumnOrder)
	LandscapeSwapped = Orientation(madctlPageOrder | madctlPageColumnSwap)
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case PortraitSwapped:
		return "portrait (swapped)"
	case LandscapeSwapped:
		return "landscape (swapped)"
	default:
		return "unknown"
	}
}

// offset returns the address offsets for a panel showing height of the
// controller's lines. The swapped orientations mirror the visible window to
// the far end of the controller RAM.
func (o Orientation) offset(height uint16) (x, y uint16) {
	var gap uint16
	if height < nativeLines {
		gap = nativeLines - height
	}
	switch o {
	case PortraitSwapped:
		return 0, gap
	case LandscapeSwapped:
		return gap, 0
	default:
		return 0, 0
	}
}

// Orientation returns the current orientation.
func (d *Dev) Orientation() Orientation {
	return d.orientation
}

// Offset returns the address offsets added to every window.
func (d *Dev) Offset() (x, y uint16) {
	return d.xStart, d.yStart
}

// SetOrientation sets the display orientation.
func (d *Dev) SetOrientation(o Orientation) error {
	if err := d.command(MADCTL, byte(o)); err != nil {
		return err
	}
	d.setOrientation(o)
	return nil
}

func (d *Dev) setOrientation(o Orientation) {
	d.orientation = o
	d.xStart, d.yStart = o.offset(d.height)
	d.log.Debugf("orientation %s, offset %d,%d", o, d.xStart, d.yStart)
}

// setAddressWindow selects the RAM area written by the next RAMWR. The
// coordinates are inclusive and relative to the visible area.
func (d *Dev) setAddressWindow(sx, sy, ex, ey uint16) error {
	sx, ex = sx+d.xStart, ex+d.xStart
	sy, ey = sy+d.yStart, ey+d.yStart
	if err := d.writeCommand(CASET); err != nil {
		return err
	}
	if err := d.writeData(byte(sx>>8), byte(sx)); err != nil {
		return err
	}
	if err := d.writeData(byte(ex>>8), byte(ex)); err != nil {
		return err
	}
	if err := d.writeCommand(RASET); err != nil {
		return err
	}
	if err := d.writeData(byte(sy>>8), byte(sy)); err != nil {
		return err
	}
	return d.writeData(byte(ey>>8), byte(ey))
}
