package analysis

import "fmt"

// Mode selects which analysis runs on an image.
type Mode string

const (
	ModeFiber    Mode = "fiber"
	ModeStroke   Mode = "stroke"
	ModeVariant  Mode = "variant"
	ModeInfusion Mode = "infusion"
	ModeLiquid   Mode = "liquid"
	ModeReport   Mode = "report"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeFiber, ModeStroke, ModeVariant, ModeInfusion, ModeLiquid, ModeReport}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}
