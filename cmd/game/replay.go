package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/application/replay"
	"github.com/younwookim/timeloop/internal/application/scene/playing"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// replayResult is where a replayed run ended up.
type replayResult struct {
	Frames    int
	Map       entity.MapID
	Position  mgl64.Vec2
	Collected int
	Rollbacks int
	Loads     int
}

func (r replayResult) String() string {
	return fmt.Sprintf("frames=%d map=%s pos=(%.2f, %.2f) collected=%d rollbacks=%d loads=%d",
		r.Frames, r.Map, r.Position[0], r.Position[1], r.Collected, r.Rollbacks, r.Loads)
}

// runReplay feeds a recording through a session without a window. The
// simulation is deterministic, so the result matches the recorded run.
func runReplay(data *replay.ReplayData, cfg *config.GameConfig, world *entity.WorldMap, log *zap.Logger) (replayResult, error) {
	runID, err := uuid.Parse(data.RunID)
	if err != nil {
		log.Warn("recording has no valid run id", zap.String("runId", data.RunID))
		runID = uuid.Nil
	}

	session := playing.NewSession(playing.SessionOptions{Log: log, RunID: runID})
	if err := session.Setup(cfg, world); err != nil {
		return replayResult{}, err
	}
	if start := string(session.ActiveMap().ID); data.Map != "" && data.Map != start {
		log.Warn("recording started on another map", zap.String("recorded", data.Map), zap.String("start", start))
	}

	dt := 1.0 / 60.0
	if fr := cfg.Physics.Display.Framerate; fr > 0 {
		dt = 1.0 / float64(fr)
	}

	var result replayResult
	replayer := replay.NewReplayer(*data)
	for {
		input, ok := replayer.GetInput()
		if !ok {
			break
		}
		session.Update(input, dt)

		frame := session.Frame()
		if frame.RolledBack {
			result.Rollbacks++
		}
		if frame.Reloaded {
			result.Loads++
		}
	}

	result.Frames = replayer.CurrentFrame()
	result.Map = session.ActiveMap().ID
	result.Position, _ = session.PlayerPosition()
	if player, ok := session.Player(); ok {
		result.Collected = player.CollectedCount
	}

	log.Info("replay finished", zap.Stringer("result", result))
	return result, nil
}
