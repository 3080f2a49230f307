package turbidity

// State is the three-way classification of the turbidity index.
type State string

const (
	StateClear    State = "CLEAR"
	StateModerate State = "MODERATE"
	StateTurbid   State = "TURBID"
)

// Classification thresholds on the 0-100 index. Both edges are inclusive on
// the upper band: index 30 is MODERATE, index 70 is TURBID.
const (
	clearBelow    = 30
	turbidAtLeast = 70
)

// Classify is total over [0,100], stateless, and recomputed every cycle.
func Classify(index int) State {
	switch {
	case index < clearBelow:
		return StateClear
	case index < turbidAtLeast:
		return StateModerate
	default:
		return StateTurbid
	}
}
