package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matt-g-everett/ledtl/util"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// A FrameSink displays rendered frames.
type FrameSink interface {
	SendFrame(f *Frame) error
}

// Player plays a Show in real time by scrubbing its timeline on every frame.
type Player struct {
	mu       sync.Mutex
	show     *Show
	sink     FrameSink
	log      zerolog.Logger
	now      func() time.Time
	started  time.Time
	paused   bool
	progress uint16
	reload   chan struct{}
	cron     *cron.Cron
}

// NewPlayer creates an instance of a Player.
func NewPlayer(show *Show, sink FrameSink, logger zerolog.Logger) *Player {
	p := new(Player)
	p.show = withFrameRate(show)
	p.sink = sink
	p.log = logger
	p.now = time.Now
	p.started = p.now()
	p.reload = make(chan struct{}, 1)
	return p
}

// withFrameRate applies the default frame rate to shows not made by BuildShow.
func withFrameRate(show *Show) *Show {
	if !(show.FrameRate > 0) {
		show.FrameRate = defaultFrameRate
	}
	return show
}

func (p *Player) interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := time.Duration(float64(time.Second) / p.show.FrameRate)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// currentProgress is the playhead position. Callers hold mu.
func (p *Player) currentProgress() uint16 {
	if p.paused {
		return p.progress
	}

	elapsed := p.now().Sub(p.started)
	if elapsed < 0 {
		elapsed = 0
	}
	progress := util.ProgressAt(uint64(elapsed/time.Millisecond), p.show.Timeline.Playtime(), p.show.Loop)
	if p.show.Timeline.Reverse() {
		progress = util.Mirror(progress)
	}
	return progress
}

// render draws the show at progress and sends the frame. Callers hold mu.
func (p *Player) render(progress uint16) error {
	p.progress = progress
	p.show.Render(progress)
	if err := p.sink.SendFrame(p.show.Frame); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// Tick renders and sends the frame for the current time.
func (p *Player) Tick() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render(p.currentProgress())
}

// Scrub pauses playback and shows the timeline at progress.
func (p *Player) Scrub(progress uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	return p.render(progress)
}

// Resume continues playback from the current position.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}

	progress := p.progress
	if p.show.Timeline.Reverse() {
		progress = util.Mirror(progress)
	}
	elapsed := util.ElapsedAt(progress, p.show.Timeline.Playtime())
	p.started = p.now().Add(-time.Duration(elapsed) * time.Millisecond)
	p.paused = false
}

// Restart plays the show from the beginning.
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = p.now()
	p.paused = false
	p.log.Info().Uint32("playtime", p.show.Timeline.Playtime()).Msg("Show restarted")
}

// SetReverse changes the playback direction, keeping the current frame.
func (p *Player) SetReverse(reverse bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.show.Timeline.Reverse() == reverse {
		return
	}

	progress := p.currentProgress()
	p.show.Timeline.SetReverse(reverse)
	if reverse {
		progress = util.Mirror(progress)
	}
	elapsed := util.ElapsedAt(progress, p.show.Timeline.Playtime())
	p.started = p.now().Add(-time.Duration(elapsed) * time.Millisecond)
}

// Reverse reports whether the show plays backwards.
func (p *Player) Reverse() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.show.Timeline.Reverse()
}

// Playtime returns the length of the show in milliseconds.
func (p *Player) Playtime() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.show.Timeline.Playtime()
}

// Load replaces the show and plays the new one from the beginning.
func (p *Player) Load(show *Show) {
	p.mu.Lock()
	p.show = withFrameRate(show)
	p.started = p.now()
	p.paused = false
	p.mu.Unlock()

	p.log.Info().Int("animations", show.Timeline.Len()).Uint32("playtime", show.Timeline.Playtime()).Msg("Show loaded")

	select {
	case p.reload <- struct{}{}:
	default:
	}
}

// Schedule restarts the show on a cron spec, replacing any previous
// schedule. An empty spec clears the schedule.
func (p *Player) Schedule(spec string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		p.cron.Stop()
		p.cron = nil
	}
	if spec == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, p.Restart); err != nil {
		return fmt.Errorf("restart schedule %q: %w", spec, err)
	}
	c.Start()
	p.cron = c
	return nil
}

// Run plays the show until ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()
	defer p.Schedule("")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.reload:
			ticker.Reset(p.interval())
		case <-ticker.C:
			if err := p.Tick(); err != nil {
				p.log.Warn().Err(err).Msg("Frame dropped")
			}
		}
	}
}
