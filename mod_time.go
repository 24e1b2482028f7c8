package lumen

import (
	"time"
)

// Time is refreshed at the start of every frame, in the Prelude stage.
type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// Elapsed is the time since the module was installed, as of this frame.
func (t *Time) Elapsed() time.Duration {
	return t.Time.Sub(t.Start)
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := time.Now()
	cmd.AddResources(&Time{Start: now, Time: now})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(t *Time) {
	now := time.Now()
	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Frame++
}
