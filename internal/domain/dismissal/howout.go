package dismissal

// Kind is the closed set of ways a batting innings can end.
type Kind string

const (
	KindNotOut          Kind = "not_out"
	KindCaught          Kind = "caught"
	KindBowled          Kind = "bowled"
	KindRunOut          Kind = "run_out"
	KindLBW             Kind = "lbw"
	KindCaughtAndBowled Kind = "caught_and_bowled"
	KindStumped         Kind = "stumped"
	KindRetiredHurt     Kind = "retired_hurt"
	KindRetiredOut      Kind = "retired_out"
	KindUnknown         Kind = "unknown"
)

// HowOut is the structured form of a scorecard dismissal string.
// Fielder and Bowler are empty when the dismissal does not name them.
type HowOut struct {
	Out      bool   `json:"out"`
	Kind     Kind   `json:"type"`
	Fielder  string `json:"fielder,omitempty"`
	Bowler   string `json:"bowler,omitempty"`
	Original string `json:"originalStatus,omitempty"`
}

func (h HowOut) IsNotOut() bool {
	return h.Kind == KindNotOut
}

// FieldingCredit reports which fielding action, if any, the dismissal awards to Fielder.
func (h HowOut) FieldingCredit() (FieldingAction, bool) {
	switch h.Kind {
	case KindCaught, KindCaughtAndBowled:
		return FieldingCatch, h.Fielder != ""
	case KindStumped:
		return FieldingStumping, h.Fielder != ""
	case KindRunOut:
		return FieldingRunOut, h.Fielder != ""
	default:
		return "", false
	}
}

type FieldingAction string

const (
	FieldingCatch    FieldingAction = "catch"
	FieldingRunOut   FieldingAction = "run_out"
	FieldingStumping FieldingAction = "stumping"
)
