package fx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/domain/beatgrid"
)

const (
	// DefaultWindowSec is the width of the trigger window centered on each
	// beat; zoom_pulse uses its own duration parameter instead.
	DefaultWindowSec = 0.15

	// maxShiftPx is the per-channel displacement of a full-intensity glitch.
	maxShiftPx = 12
)

// Expression renders one combined filtergraph string that fires the effect
// at every beat. The exact textual syntax is a compatibility surface for the
// external compositing tool: identical inputs must stay byte-identical.
func Expression(spec Spec, beatTimes []float64) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	if err := beatgrid.Validate(beatTimes); err != nil {
		return "", err
	}
	return spec.render(beatTimes), nil
}

// FilterComplex renders one independently well-formed filter string per
// beat, each gated to a window around its own beat only. The result always
// has exactly len(beatTimes) entries.
func FilterComplex(spec Spec, beatTimes []float64) ([]string, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := beatgrid.Validate(beatTimes); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(beatTimes))
	for _, b := range beatTimes {
		out = append(out, spec.render([]float64{b}))
	}
	return out, nil
}

func (s FlashSpec) render(beatTimes []float64) string {
	g := gate("t", beatTimes, DefaultWindowSec)
	expr := fmt.Sprintf("eq=brightness=%s:enable='%s'", fmtF(s.Intensity), g)
	if s.Color != "" {
		expr += fmt.Sprintf(",hue=h=%s:enable='%s'", fmtF(paletteHue[s.Color]), g)
	}
	return expr
}

func (s ColorBurstSpec) render(beatTimes []float64) string {
	g := gate("t", beatTimes, DefaultWindowSec)
	expr := fmt.Sprintf("eq=saturation=%s:brightness=%s:enable='%s'", fmtF(s.Saturation), fmtF(s.Brightness), g)
	if s.Hue != 0 {
		expr += fmt.Sprintf(",hue=h=%s:enable='%s'", fmtF(s.Hue), g)
	}
	return expr
}

func (s ZoomPulseSpec) render(beatTimes []float64) string {
	// zoompan has no timeline support, so the gate lives inside the zoom
	// expression on input time.
	g := gate("it", beatTimes, s.Duration)
	return fmt.Sprintf("zoompan=z='1+%s*(%s)':d=1:s=1920x1080", fmtF(s.Zoom-1), g)
}

func (s BrightnessPulseSpec) render(beatTimes []float64) string {
	return fmt.Sprintf("eq=brightness=%s:enable='%s'", fmtF(s.Brightness), gate("t", beatTimes, DefaultWindowSec))
}

func (s GlitchSpec) render(beatTimes []float64) string {
	// Red shifts one way, blue the other; both terms stay explicit so the
	// displacement magnitude and direction are visible in the text.
	px := int(math.Round(s.Intensity * maxShiftPx))
	return fmt.Sprintf("rgbashift=rh=%d:bh=%d:enable='%s'", px, -px, gate("t", beatTimes, DefaultWindowSec))
}

// gate builds the time-window predicate: a sum of between() terms, one per
// beat, each window centered on its beat with the lower edge clamped at 0.
// An empty beat list gates to the constant 0 so the effect never fires but
// the expression stays well-formed.
func gate(timeVar string, beatTimes []float64, windowSec float64) string {
	if len(beatTimes) == 0 {
		return "0"
	}
	half := windowSec / 2
	terms := make([]string, 0, len(beatTimes))
	for _, b := range beatTimes {
		lo := math.Max(0, b-half)
		terms = append(terms, fmt.Sprintf("between(%s,%s,%s)", timeVar, fmtF(lo), fmtF(b+half)))
	}
	return strings.Join(terms, "+")
}

func fmtF(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}
