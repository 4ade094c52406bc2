package motion

import (
	"strings"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/types"
)

// Motion categories handed to the clip-generation prompt builder, ordered
// from stillest to busiest.
const (
	SlowDrift    = "slow-drift"
	GentleSway   = "gentle-sway"
	SteadyGroove = "steady-groove"
	Dynamic      = "dynamic"
	HighEnergy   = "high-energy"
)

// DefaultCategory is returned when no signal matches.
const DefaultCategory = SteadyGroove

var sceneCategory = map[string]string{
	"chorus":  HighEnergy,
	"drop":    HighEnergy,
	"climax":  HighEnergy,
	"intro":   SlowDrift,
	"outro":   SlowDrift,
	"bridge":  GentleSway,
	"verse":   SteadyGroove,
	"buildup": Dynamic,
}

var moodCategory = map[string]string{
	"calm":        SlowDrift,
	"chill":       SlowDrift,
	"peaceful":    SlowDrift,
	"ambient":     SlowDrift,
	"mellow":      SlowDrift,
	"sad":         GentleSway,
	"melancholic": GentleSway,
	"dreamy":      GentleSway,
	"romantic":    GentleSway,
	"soft":        GentleSway,
	"happy":       SteadyGroove,
	"groovy":      SteadyGroove,
	"funky":       SteadyGroove,
	"upbeat":      Dynamic,
	"driving":     Dynamic,
	"energetic":   HighEnergy,
	"intense":     HighEnergy,
	"aggressive":  HighEnergy,
	"hype":        HighEnergy,
}

var genreCategory = map[string]string{
	"ambient":       SlowDrift,
	"classical":     SlowDrift,
	"lofi":          SlowDrift,
	"lo-fi":         SlowDrift,
	"jazz":          GentleSway,
	"soul":          GentleSway,
	"rnb":           GentleSway,
	"r&b":           GentleSway,
	"folk":          GentleSway,
	"pop":           SteadyGroove,
	"indie":         SteadyGroove,
	"hip hop":       SteadyGroove,
	"hip-hop":       SteadyGroove,
	"rap":           SteadyGroove,
	"rock":          Dynamic,
	"house":         Dynamic,
	"dance":         Dynamic,
	"edm":           Dynamic,
	"electronic":    Dynamic,
	"metal":         HighEnergy,
	"punk":          HighEnergy,
	"techno":        HighEnergy,
	"dubstep":       HighEnergy,
	"drum and bass": HighEnergy,
	"dnb":           HighEnergy,
}

// Select picks a motion category from the scene context. Strict priority,
// first match wins: scene, mood, mood tags, genre, BPM bucket, default.
func Select(ctx types.SceneContext) string {
	if c, ok := sceneCategory[normalize(ctx.Scene)]; ok {
		return c
	}
	if c, ok := moodCategory[normalize(ctx.Mood)]; ok {
		return c
	}
	for _, tag := range ctx.MoodTags {
		if c, ok := moodCategory[normalize(tag)]; ok {
			return c
		}
	}
	if c, ok := genreCategory[normalize(ctx.Genre)]; ok {
		return c
	}
	if ctx.BPM > 0 {
		return tempoCategory(ctx.BPM)
	}
	return DefaultCategory
}

// tempoCategory buckets BPM: very-slow <70, slow 70-95, medium 95-120,
// fast 120-145, very-fast >145.
func tempoCategory(bpm float64) string {
	switch {
	case bpm < 70:
		return SlowDrift
	case bpm < 95:
		return GentleSway
	case bpm < 120:
		return SteadyGroove
	case bpm <= 145:
		return Dynamic
	default:
		return HighEnergy
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
