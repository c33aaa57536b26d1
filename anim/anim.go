// Package anim describes a single animated property: the values it runs
// between, how long it takes, how it interpolates and where the result goes.
package anim

// A PathFunc calculates the current value of an Anim from its ActTime.
type PathFunc func(a *Anim) int32

// An ExecFunc applies a calculated value to a target.
type ExecFunc func(target interface{}, value int32)

// Anim is a descriptor of one animated value. It is copied by value, so a
// Timeline or Scheduler holding an Anim is not affected by later changes to
// the caller's copy.
type Anim struct {
	StartValue int32
	EndValue   int32

	// Time is the duration in milliseconds.
	Time uint32
	// ActTime is the elapsed time in milliseconds.
	ActTime int32
	// Delay is waited before the animation starts to run.
	Delay uint32

	Path PathFunc
	Exec ExecFunc
	Var  interface{}
}

// New creates an Anim with a Linear path.
func New(target interface{}, exec ExecFunc, start, end int32, timeMs uint32) Anim {
	return Anim{
		StartValue: start,
		EndValue:   end,
		Time:       timeMs,
		Path:       Linear,
		Exec:       exec,
		Var:        target,
	}
}

// Value evaluates the path at the current ActTime.
func (a *Anim) Value() int32 {
	if a.Path == nil {
		return Linear(a)
	}
	return a.Path(a)
}

// Reversed returns a copy with the start and end values swapped.
func (a Anim) Reversed() Anim {
	a.StartValue, a.EndValue = a.EndValue, a.StartValue
	return a
}

// Handle identifies an Anim registered with a Scheduler.
type Handle uint64

// NoHandle is the Handle of an Anim that was never started.
const NoHandle Handle = 0

// A Scheduler ticks registered animations on a frame clock.
type Scheduler interface {
	// Start registers a copy of a. The animation waits a.Delay before running.
	Start(a Anim) Handle
	// Cancel removes a running registration. It reports false when h is not
	// known, for example because the animation already finished.
	Cancel(h Handle) bool
}
