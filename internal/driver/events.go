package driver

import "time"

// Stage is one step of the per-file pipeline.
type Stage string

const (
	StageLoad      Stage = "load"
	StageParse     Stage = "parse"
	StageSemantic  Stage = "semantic"
	StageLint      Stage = "lint"
	StageTransform Stage = "transform"
	StageCodegen   Stage = "codegen"
)

// Stages lists the pipeline in execution order.
var Stages = [...]Stage{StageLoad, StageParse, StageSemantic, StageLint, StageTransform, StageCodegen}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
