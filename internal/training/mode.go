package training

import "fmt"

// ModeID selects one of the fixed training modes.
type ModeID string

const (
	ModeLearn ModeID = "learn"
	ModeDrill ModeID = "drill"
)

// Mode is the immutable feature-flag record for a training mode.
type Mode struct {
	ID               ModeID
	ShowExplanations bool
	ShowHints        bool
	AllowUndo        bool
	TrackXP          bool
	ShowMistakes     bool
}

var modes = map[ModeID]Mode{
	ModeLearn: {
		ID:               ModeLearn,
		ShowExplanations: true,
		ShowHints:        true,
		AllowUndo:        true,
		TrackXP:          false,
		ShowMistakes:     false,
	},
	ModeDrill: {
		ID:               ModeDrill,
		ShowExplanations: false,
		ShowHints:        false,
		AllowUndo:        false,
		TrackXP:          true,
		ShowMistakes:     true,
	},
}

// ModeByID looks up a mode configuration.
func ModeByID(id ModeID) (Mode, error) {
	m, ok := modes[id]
	if !ok {
		return Mode{}, fmt.Errorf("training: unknown mode %q", id)
	}
	return m, nil
}
