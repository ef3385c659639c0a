package st7789

import "fmt"

// Instruction is a controller command opcode.
type Instruction byte

// Instructions (from st7789.pdf, system and panel function command tables).
const (
	NOP       Instruction = 0x00
	SWRESET   Instruction = 0x01 // Software Reset
	RDDID     Instruction = 0x04
	RDDST     Instruction = 0x09
	SLPIN     Instruction = 0x10 // Sleep In
	SLPOUT    Instruction = 0x11 // Sleep Out
	PTLON     Instruction = 0x12
	NORON     Instruction = 0x13 // Normal Display Mode On
	INVOFF    Instruction = 0x20 // Display Inversion Off
	INVON     Instruction = 0x21 // Display Inversion On
	GAMSET    Instruction = 0x26
	DISPOFF   Instruction = 0x28 // Display Off
	DISPON    Instruction = 0x29 // Display On
	CASET     Instruction = 0x2A // Column Address Set
	RASET     Instruction = 0x2B // Row Address Set
	RAMWR     Instruction = 0x2C // Memory Write
	RAMRD     Instruction = 0x2E
	PTLAR     Instruction = 0x30
	VSCRDER   Instruction = 0x33 // Vertical Scrolling Definition
	TEOFF     Instruction = 0x34 // Tearing Effect Line Off
	TEON      Instruction = 0x35 // Tearing Effect Line On
	MADCTL    Instruction = 0x36 // Memory Data Access Control
	VSCAD     Instruction = 0x37 // Vertical Scroll Start Address
	IDMOFF    Instruction = 0x38
	IDMON     Instruction = 0x39
	COLMOD    Instruction = 0x3A // Interface Pixel Format
	RAMWRC    Instruction = 0x3C
	RAMCTRL   Instruction = 0xB0
	RGBCTRL   Instruction = 0xB1
	PORCTRL   Instruction = 0xB2 // Porch Setting
	FRCTRL1   Instruction = 0xB3
	GCTRL     Instruction = 0xB7 // Gate Control
	VCOMS     Instruction = 0xBB // VCOM Setting
	LCMCTRL   Instruction = 0xC0 // LCM Control
	VDVVRHEN  Instruction = 0xC2 // VDV and VRH Command Enable
	VRHS      Instruction = 0xC3 // VRH Set
	VDVS      Instruction = 0xC4 // VDV Set
	VCMOFSET  Instruction = 0xC5 // VCOM Offset Set
	FRCTRL2   Instruction = 0xC6 // Frame Rate Control in Normal Mode
	PWCTRL1   Instruction = 0xD0 // Power Control 1
	PVGAMCTRL Instruction = 0xE0 // Positive Voltage Gamma Control
	NVGAMCTRL Instruction = 0xE1 // Negative Voltage Gamma Control
)

var instructionNames = map[Instruction]string{
	NOP: "NOP", SWRESET: "SWRESET", RDDID: "RDDID", RDDST: "RDDST",
	SLPIN: "SLPIN", SLPOUT: "SLPOUT", PTLON: "PTLON", NORON: "NORON",
	INVOFF: "INVOFF", INVON: "INVON", GAMSET: "GAMSET",
	DISPOFF: "DISPOFF", DISPON: "DISPON",
	CASET: "CASET", RASET: "RASET", RAMWR: "RAMWR", RAMRD: "RAMRD",
	PTLAR: "PTLAR", VSCRDER: "VSCRDER", TEOFF: "TEOFF", TEON: "TEON",
	MADCTL: "MADCTL", VSCAD: "VSCAD", IDMOFF: "IDMOFF", IDMON: "IDMON",
	COLMOD: "COLMOD", RAMWRC: "RAMWRC", RAMCTRL: "RAMCTRL", RGBCTRL: "RGBCTRL",
	PORCTRL: "PORCTRL", FRCTRL1: "FRCTRL1", GCTRL: "GCTRL", VCOMS: "VCOMS",
	LCMCTRL: "LCMCTRL", VDVVRHEN: "VDVVRHEN", VRHS: "VRHS", VDVS: "VDVS",
	VCMOFSET: "VCMOFSET", FRCTRL2: "FRCTRL2", PWCTRL1: "PWCTRL1",
	PVGAMCTRL: "PVGAMCTRL", NVGAMCTRL: "NVGAMCTRL",
}

func (i Instruction) String() string {
	if name, ok := instructionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Instruction(%#02x)", byte(i))
}
