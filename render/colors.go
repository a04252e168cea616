package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/efield/parameter"
)

// Palette
var (
	RgbBackground = RGB{26, 27, 38}    // Tokyo Night background
	RgbGridDot    = RGB{70, 72, 90}    // Dark gray lattice dots
	RgbAxis       = RGB{45, 47, 62}    // Faint origin axes
	RgbPositive   = RGB{255, 80, 80}   // Positive charge
	RgbNegative   = RGB{100, 150, 255} // Negative charge
	RgbSelected   = RGB{255, 165, 0}   // Charge under drag
	RgbFieldLine  = RGB{255, 255, 255} // Traced line
	RgbLineHit    = RGB{255, 255, 0}   // Line terminal point on a charge

	RgbStatusBg     = RGB{40, 42, 58}
	RgbStatusText   = RGB{200, 200, 200}
	RgbModeNormalBg = RGB{135, 206, 250} // Light sky blue
	RgbModePromptBg = RGB{144, 238, 144} // Light grass green
	RgbModeText     = RGB{0, 0, 0}
	RgbPromptError  = RGB{255, 0, 0}
	RgbAudioMuted   = RGB{255, 0, 0}
	RgbAudioOn      = RGB{0, 255, 0}
)

// FieldHue maps a field magnitude to a hue fraction in [0, 1)
// Magnitudes are scaled into display range, clamped, then spread over the hue span
func FieldHue(magnitude float64) float64 {
	c := magnitude * parameter.ArrowMagnitudeScale
	if math.IsNaN(c) {
		c = parameter.ArrowClampMin
	}
	c = math.Max(parameter.ArrowClampMin, math.Min(parameter.ArrowClampMax, c))
	return (c - parameter.ArrowClampMin) / (parameter.ArrowHueSpan - parameter.ArrowClampMin)
}

// FieldColor is the fully saturated, full brightness color for a field magnitude
func FieldColor(magnitude float64) RGB {
	return FromColorful(colorful.Hsv(FieldHue(magnitude)*360.0, 1, 1))
}
