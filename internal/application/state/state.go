package state

// GameState represents the current state of a play session. States only
// move forward: Uninitialized, then Title, then Active.
type GameState int

const (
	StateUninitialized GameState = iota
	StateTitle
	StateActive
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateTitle:
		return "Title"
	case StateActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Next returns the state that follows s. Active is terminal.
func (s GameState) Next() GameState {
	switch s {
	case StateUninitialized:
		return StateTitle
	case StateTitle:
		return StateActive
	default:
		return s
	}
}
