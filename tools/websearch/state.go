package websearch

// State is the provider mode the loader settles on for one load.
type State int

const (
	// StateUnavailable is selected when no credential is configured.
	StateUnavailable State = iota
	// StateLive is selected when the server is reachable and exposes
	// relevant tools.
	StateLive
	// StateStub is selected when the server is reachable but exposes no
	// relevant tools.
	StateStub
	// StateFallback is selected when the server cannot be reached or tool
	// discovery fails.
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateLive:
		return "live"
	case StateStub:
		return "stub"
	case StateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// SelectState maps the three observations made during a load to the provider
// state. Keeping the policy in one pure function makes the branch order
// testable without a server: missing credential wins over everything,
// unreachable wins over undiscovered.
func SelectState(credentialPresent, reachable, discovered bool) State {
	switch {
	case !credentialPresent:
		return StateUnavailable
	case !reachable:
		return StateFallback
	case !discovered:
		return StateStub
	default:
		return StateLive
	}
}
