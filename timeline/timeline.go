// Package timeline composes several animations into one sequence with a
// shared playhead.
//
// A Timeline is not safe for concurrent use; callers serialize access.
package timeline

import (
	"github.com/matt-g-everett/ledtl/anim"
)

// ProgressMax is the progress value that corresponds to the end of a Timeline.
const ProgressMax = 0xFFFF

type entry struct {
	anim      anim.Anim
	startTime uint32
	handle    anim.Handle
}

// Timeline holds animations and the time at which each starts.
type Timeline struct {
	entries []entry
	reverse bool
}

// New creates an empty Timeline.
func New() *Timeline {
	t := new(Timeline)
	return t
}

func mustTimeline(t *Timeline) {
	if t == nil {
		panic("timeline: nil Timeline")
	}
}

// Delete cancels every animation the Timeline started and drops its entries.
// Cancellation is requested even if the animation may already have finished.
func (t *Timeline) Delete(s anim.Scheduler) {
	mustTimeline(t)

	for i := range t.entries {
		if t.entries[i].handle == anim.NoHandle {
			continue
		}
		if s == nil {
			panic("timeline: nil Scheduler")
		}
		s.Cancel(t.entries[i].handle)
		t.entries[i].handle = anim.NoHandle
	}

	t.entries = nil
}

// Add appends a copy of a that begins startTime milliseconds into the
// Timeline.
func (t *Timeline) Add(startTime uint32, a anim.Anim) {
	mustTimeline(t)

	t.entries = append(t.entries, entry{anim: a, startTime: startTime})
}

// Start registers every animation with s and returns the playtime.
//
// Calling Start again registers every animation a second time without
// cancelling the first registrations.
func (t *Timeline) Start(s anim.Scheduler) uint32 {
	mustTimeline(t)
	if s == nil {
		panic("timeline: nil Scheduler")
	}

	playtime := t.Playtime()
	for i := range t.entries {
		e := &t.entries[i]
		a := e.anim
		if t.reverse {
			a = a.Reversed()
			a.Delay = playtime - (e.startTime + a.Time)
		} else {
			a.Delay = e.startTime
		}

		e.handle = s.Start(a)
	}

	return playtime
}

// SetReverse selects the direction used by the next Start.
func (t *Timeline) SetReverse(reverse bool) {
	mustTimeline(t)
	t.reverse = reverse
}

// Reverse reports whether Start plays the Timeline backwards.
func (t *Timeline) Reverse() bool {
	mustTimeline(t)
	return t.reverse
}

// SetProgress applies the value of every animation at the given position,
// where 0 is the beginning and ProgressMax the end of the Timeline. It
// always works in forward time regardless of Reverse, and calls each Exec
// even if the value did not change.
func (t *Timeline) SetProgress(progress uint16) {
	mustTimeline(t)

	playtime := t.Playtime()
	actTime := uint32(uint64(progress) * uint64(playtime) / ProgressMax)

	for i := range t.entries {
		a := t.entries[i].anim
		startTime := t.entries[i].startTime

		var value int32
		if actTime < startTime {
			value = a.StartValue
		} else if actTime < startTime+a.Time {
			a.ActTime = int32(actTime - startTime)
			value = a.Value()
		} else {
			value = a.EndValue
		}

		if a.Exec != nil {
			a.Exec(a.Var, value)
		}
	}
}

// Playtime is the time at which the last animation ends.
func (t *Timeline) Playtime() uint32 {
	mustTimeline(t)

	var playtime uint32
	for _, e := range t.entries {
		end := e.startTime + e.anim.Time
		if end > playtime {
			playtime = end
		}
	}

	return playtime
}

// Len returns the number of animations in the Timeline.
func (t *Timeline) Len() int {
	mustTimeline(t)
	return len(t.entries)
}

// Handles returns the handle of every entry in insertion order. Entries
// that were never started hold anim.NoHandle.
func (t *Timeline) Handles() []anim.Handle {
	mustTimeline(t)

	handles := make([]anim.Handle, len(t.entries))
	for i, e := range t.entries {
		handles[i] = e.handle
	}
	return handles
}
