package replay

import (
	"github.com/younwookim/timeloop/internal/application/system"
)

// Version is written into every recording.
const Version = "2.0"

// FrameInput records input state for a single frame
type FrameInput struct {
	F int `json:"f"` // Frame number
	system.InputState
}

// ReplayData contains all data needed to replay a game session.
// The simulation is deterministic, so the start map and the inputs are
// enough to reproduce a run.
type ReplayData struct {
	Version   string       `json:"version"`
	RunID     string       `json:"runId"`
	Map       string       `json:"map"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
