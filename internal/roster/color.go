package roster

import (
	"fmt"

	"github.com/sc2kit/s2bank/internal/rep"
)

// colorNames maps the standard lobby palette to its in-game names.
var colorNames = map[string]string{
	"B4141E": "Red",
	"0042FF": "Blue",
	"1CA7EA": "Teal",
	"EBE129": "Yellow",
	"540081": "Purple",
	"FE8A0E": "Orange",
	"168000": "Green",
	"CCA6FC": "Light Pink",
	"1F01C9": "Violet",
	"525494": "Light Grey",
	"106246": "Dark Green",
	"4E2A04": "Brown",
	"96FF91": "Light Green",
	"232323": "Dark Grey",
	"E55BB0": "Pink",
	"FFFFFF": "White",
	"000000": "Black",
}

// ColorHex renders a color as RRGGBB (alpha dropped, as in lobby data).
func ColorHex(c rep.ColorRGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ColorName returns the palette name for a color, or "#RRGGBB" for colors
// outside the standard palette.
func ColorName(c rep.ColorRGBA) string {
	hex := ColorHex(c)
	if name, ok := colorNames[hex]; ok {
		return name
	}
	return "#" + hex
}
