package motion

import "strconv"

// adapter appends target-specific tempo phrasing to a generation prompt.
type adapter func(prompt string, bpm float64) string

// Each downstream generator reads rhythm hints differently, so the suffix
// style is per target. Unknown targets pass the prompt through untouched.
var targetAdapters = map[string]adapter{
	"runway": func(prompt string, bpm float64) string {
		if bpm > 0 {
			return prompt + ", camera and subject motion locked to a " + fmtBPM(bpm) + " BPM pulse, seamless loop"
		}
		return prompt + ", camera and subject motion locked to the beat, seamless loop"
	},
	"pika": func(prompt string, bpm float64) string {
		if bpm > 0 {
			return prompt + ", pulsing rhythmically at " + fmtBPM(bpm) + " BPM"
		}
		return prompt + ", pulsing rhythmically with the music"
	},
	"luma": func(prompt string, bpm float64) string {
		if bpm > 0 {
			return prompt + " | tempo: " + fmtBPM(bpm) + " BPM | beat-synced motion"
		}
		return prompt + " | beat-synced motion"
	},
}

// AdaptPrompt rewrites prompt for the named generation target. Targets are
// matched case-insensitively; an unrecognized target returns prompt as is.
func AdaptPrompt(prompt, target string, bpm float64) string {
	a, ok := targetAdapters[normalize(target)]
	if !ok {
		return prompt
	}
	return a(prompt, bpm)
}

func fmtBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}
