package fx

import "fmt"

const (
	FilterFlash           = "flash"
	FilterColorBurst      = "color_burst"
	FilterZoomPulse       = "zoom_pulse"
	FilterBrightnessPulse = "brightness_pulse"
	FilterGlitch          = "glitch"
)

// Spec is one beat-triggered effect with typed parameters. The set is
// closed: each case owns its parameter contract and the single render
// function that emits the compositing tool's filter syntax.
type Spec interface {
	FilterType() string
	Validate() error
	render(beatTimes []float64) string
}

// paletteHue maps flash tint names onto hue rotation degrees.
var paletteHue = map[string]float64{
	"red":     0,
	"orange":  30,
	"yellow":  60,
	"green":   120,
	"cyan":    180,
	"blue":    240,
	"magenta": 300,
}

type FlashSpec struct {
	Intensity float64 // brightness boost while the window is open
	Color     string  // optional tint from the named palette
}

func (FlashSpec) FilterType() string { return FilterFlash }

func (s FlashSpec) Validate() error {
	if s.Intensity <= 0 || s.Intensity > 1 {
		return fmt.Errorf("flash intensity must be in (0, 1], got %v", s.Intensity)
	}
	if s.Color != "" {
		if _, ok := paletteHue[s.Color]; !ok {
			return fmt.Errorf("flash color %q is not in the palette", s.Color)
		}
	}
	return nil
}

type ColorBurstSpec struct {
	Saturation float64
	Brightness float64
	Hue        float64 // degrees
}

func (ColorBurstSpec) FilterType() string { return FilterColorBurst }

func (s ColorBurstSpec) Validate() error {
	if s.Saturation <= 0 || s.Saturation > 3 {
		return fmt.Errorf("color_burst saturation must be in (0, 3], got %v", s.Saturation)
	}
	if s.Brightness < -1 || s.Brightness > 1 {
		return fmt.Errorf("color_burst brightness must be in [-1, 1], got %v", s.Brightness)
	}
	if s.Hue < -360 || s.Hue > 360 {
		return fmt.Errorf("color_burst hue must be in [-360, 360], got %v", s.Hue)
	}
	return nil
}

type ZoomPulseSpec struct {
	Zoom     float64 // scale factor, must exceed 1.0
	Duration float64 // pulse width in seconds
}

func (ZoomPulseSpec) FilterType() string { return FilterZoomPulse }

func (s ZoomPulseSpec) Validate() error {
	if s.Zoom <= 1 {
		return fmt.Errorf("zoom_pulse zoom must be > 1.0, got %v", s.Zoom)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("zoom_pulse duration must be > 0, got %v", s.Duration)
	}
	return nil
}

type BrightnessPulseSpec struct {
	Brightness float64 // delta applied while the window is open
}

func (BrightnessPulseSpec) FilterType() string { return FilterBrightnessPulse }

func (s BrightnessPulseSpec) Validate() error {
	if s.Brightness < -1 || s.Brightness > 1 {
		return fmt.Errorf("brightness_pulse brightness must be in [-1, 1], got %v", s.Brightness)
	}
	return nil
}

type GlitchSpec struct {
	Intensity float64 // 0..1, scales the per-channel pixel displacement
}

func (GlitchSpec) FilterType() string { return FilterGlitch }

func (s GlitchSpec) Validate() error {
	if s.Intensity < 0 || s.Intensity > 1 {
		return fmt.Errorf("glitch intensity must be in [0, 1], got %v", s.Intensity)
	}
	return nil
}

// ParseSpec maps the wire form (filter_type + loose param map) onto a typed
// variant, filling defaults for absent keys. Unknown filter types and
// unknown or mistyped parameters are validation errors, never silent no-ops.
func ParseSpec(filterType string, params map[string]any) (Spec, error) {
	p, err := newParams(filterType, params)
	if err != nil {
		return nil, err
	}

	var spec Spec
	switch filterType {
	case FilterFlash:
		spec, err = parseFlash(p)
	case FilterColorBurst:
		spec, err = parseColorBurst(p)
	case FilterZoomPulse:
		spec, err = parseZoomPulse(p)
	case FilterBrightnessPulse:
		spec, err = parseBrightnessPulse(p)
	case FilterGlitch:
		spec, err = parseGlitch(p)
	default:
		return nil, fmt.Errorf("unknown filter type %q", filterType)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filterType, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseFlash(p paramSet) (Spec, error) {
	s := FlashSpec{Intensity: 0.3}
	var err error
	if s.Intensity, err = p.num("intensity", s.Intensity); err != nil {
		return nil, err
	}
	if s.Color, err = p.str("color", ""); err != nil {
		return nil, err
	}
	return s, nil
}

func parseColorBurst(p paramSet) (Spec, error) {
	s := ColorBurstSpec{Saturation: 1.8, Brightness: 0.1}
	var err error
	if s.Saturation, err = p.num("saturation", s.Saturation); err != nil {
		return nil, err
	}
	if s.Brightness, err = p.num("brightness", s.Brightness); err != nil {
		return nil, err
	}
	if s.Hue, err = p.num("hue", s.Hue); err != nil {
		return nil, err
	}
	return s, nil
}

func parseZoomPulse(p paramSet) (Spec, error) {
	s := ZoomPulseSpec{Zoom: 1.15, Duration: 0.3}
	var err error
	if s.Zoom, err = p.num("zoom", s.Zoom); err != nil {
		return nil, err
	}
	if s.Duration, err = p.num("duration", s.Duration); err != nil {
		return nil, err
	}
	return s, nil
}

func parseBrightnessPulse(p paramSet) (Spec, error) {
	s := BrightnessPulseSpec{Brightness: 0.15}
	var err error
	if s.Brightness, err = p.num("brightness", s.Brightness); err != nil {
		return nil, err
	}
	return s, nil
}

func parseGlitch(p paramSet) (Spec, error) {
	s := GlitchSpec{Intensity: 0.5}
	var err error
	if s.Intensity, err = p.num("intensity", s.Intensity); err != nil {
		return nil, err
	}
	return s, nil
}

// allowedParams is the closed key set per filter type; anything else in the
// wire map is a caller mistake worth failing loudly on.
var allowedParams = map[string][]string{
	FilterFlash:           {"intensity", "color"},
	FilterColorBurst:      {"saturation", "brightness", "hue"},
	FilterZoomPulse:       {"zoom", "duration"},
	FilterBrightnessPulse: {"brightness"},
	FilterGlitch:          {"intensity"},
}

type paramSet struct {
	m map[string]any
}

func newParams(filterType string, m map[string]any) (paramSet, error) {
	allowed, ok := allowedParams[filterType]
	if !ok {
		return paramSet{}, fmt.Errorf("unknown filter type %q", filterType)
	}
	for k := range m {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return paramSet{}, fmt.Errorf("%s: unknown parameter %q", filterType, k)
		}
	}
	return paramSet{m: m}, nil
}

func (p paramSet) num(key string, def float64) (float64, error) {
	v, ok := p.m[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q must be numeric, got %T", key, v)
	}
}

func (p paramSet) str(key, def string) (string, error) {
	v, ok := p.m[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, v)
	}
	return s, nil
}
