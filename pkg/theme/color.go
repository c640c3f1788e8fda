package theme

import (
	"fmt"
	"math"
	"strconv"
)

// HSL holds a color as whole degrees and whole percentages.
type HSL struct {
	H int
	S int
	L int
}

// String renders the space-separated form used in CSS custom properties,
// e.g. "217 91% 60%".
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

// roundHalfUp rounds .5 away from zero for the non-negative inputs used here.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// HexToHSL converts #RRGGBB. Achromatic colors (r == g == b) yield H=0, S=0.
func HexToHSL(hex string) (HSL, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return HSL{}, fmt.Errorf("color %q is not in #RRGGBB form", hex)
	}
	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return HSL{}, fmt.Errorf("color %q is not in #RRGGBB form", hex)
	}

	ri := int(rgb>>16) & 0xFF
	gi := int(rgb>>8) & 0xFF
	bi := int(rgb) & 0xFF
	r := float64(ri) / 255
	g := float64(gi) / 255
	b := float64(bi) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	if ri == gi && gi == bi {
		return HSL{H: 0, S: 0, L: roundHalfUp(l * 100)}, nil
	}

	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6

	return HSL{
		H: roundHalfUp(h*360) % 360,
		S: roundHalfUp(s * 100),
		L: roundHalfUp(l * 100),
	}, nil
}
