package domain

// OutcomeClass classifies how a contract settled.
type OutcomeClass string

// Outcome classes are mutually exclusive: a called contract is never a
// capital loss, and the loss class requires principal below par.
const (
	OutcomeAutocall          OutcomeClass = "autocall"
	OutcomeCapitalRedemption OutcomeClass = "capital_redemption"
	OutcomeCapitalLoss       OutcomeClass = "capital_loss"
)

// PathState is the tagged lifecycle state of a contract along one path.
type PathState int

// Lifecycle states. A path starts Alive and terminates in exactly one of
// Called or ReachedMaturity.
const (
	StateAlive PathState = iota
	StateCalled
	StateReachedMaturity
)

func (s PathState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateCalled:
		return "called"
	case StateReachedMaturity:
		return "reached_maturity"
	default:
		return "unknown"
	}
}
