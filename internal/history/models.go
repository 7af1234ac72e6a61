package history

import "time"

// Run kinds.
const (
	KindPrompts  = "prompts"
	KindImages   = "images"
	KindAssemble = "assemble"
)

// StatusRunning marks a run that has started but not finished. Finished runs
// carry one of the services.Outcome values.
const StatusRunning = "running"

// Run is one recorded invocation.
type Run struct {
	ID           string
	Kind         string
	Status       string
	Input        string
	Output       string
	Provider     string
	StartedAt    time.Time
	FinishedAt   time.Time
	Counts       Counts
	ErrorMessage string
}

// Duration reports how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts are the scene totals of a run.
type Counts struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// SceneRecord is the outcome of one scene within an images run.
type SceneRecord struct {
	Sequence int
	Filename string
	Status   string
	Error    string
	Bytes    int
}
