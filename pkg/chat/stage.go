package chat

// Stage is the classifier-assigned phase of the user's planning journey.
type Stage string

// Planning stages, in rough chronological order.
const (
	StageExploring  Stage = "exploring"
	StageComparing  Stage = "comparing"
	StagePlanning   Stage = "planning"
	StageFinalizing Stage = "finalizing"
)

// Stages lists all known stages in progression order.
func Stages() []Stage {
	return []Stage{StageExploring, StageComparing, StagePlanning, StageFinalizing}
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageExploring, StageComparing, StagePlanning, StageFinalizing:
		return true
	}
	return false
}
