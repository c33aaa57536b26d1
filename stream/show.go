package stream

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtl/anim"
	"github.com/matt-g-everett/ledtl/timeline"
)

// A Show is a timeline bound to the frame its animations draw into.
type Show struct {
	Timeline   *timeline.Timeline
	Frame      *Frame
	Segments   map[string]*Segment
	order      []*Segment
	Background colorful.Color
	Loop       bool
	FrameRate  float64
}

func parseColour(s string, fallback colorful.Color) (colorful.Color, error) {
	if s == "" {
		return fallback, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return c, nil
}

// BuildShow creates the segments and the timeline described by config.
func BuildShow(config ShowConfig) (*Show, error) {
	show := new(Show)
	show.Frame = NewFrame()
	show.Segments = make(map[string]*Segment, len(config.Segments))
	show.Loop = config.Loop
	show.FrameRate = config.FrameRate
	if show.FrameRate <= 0 {
		show.FrameRate = defaultFrameRate
	}

	var err error
	show.Background, err = parseColour(config.Background, colorful.Color{})
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	for i, sc := range config.Segments {
		if sc.Name == "" {
			return nil, fmt.Errorf("segment %d: missing name", i)
		}
		if _, ok := show.Segments[sc.Name]; ok {
			return nil, fmt.Errorf("segment %q: duplicate name", sc.Name)
		}
		if sc.From < 0 || sc.To > NumPixels || sc.From >= sc.To {
			return nil, fmt.Errorf("segment %q: range [%d, %d) outside [0, %d)", sc.Name, sc.From, sc.To, NumPixels)
		}

		colour, err := parseColour(sc.Colour, colorful.Color{R: 0.5, G: 0.5, B: 0.5})
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", sc.Name, err)
		}
		toColour, err := parseColour(sc.ToColour, colour)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", sc.Name, err)
		}

		s := NewSegment(sc.Name, sc.From, sc.To, colour, toColour, show.Frame)
		if len(sc.Gradient) > 0 {
			s.Gradient = sc.Gradient
		}
		show.Segments[sc.Name] = s
		show.order = append(show.order, s)
	}

	show.Timeline = timeline.New()
	show.Timeline.SetReverse(config.Reverse)
	for i, ac := range config.Animations {
		s, ok := show.Segments[ac.Segment]
		if !ok {
			return nil, fmt.Errorf("animation %d: unknown segment %q", i, ac.Segment)
		}
		exec, err := ChannelByName(ac.Channel)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		path, err := anim.PathByName(ac.Path)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}

		a := anim.New(s, exec, ac.Start, ac.End, ac.Duration)
		a.Path = path
		show.Timeline.Add(ac.Offset, a)
	}

	return show, nil
}

// Render draws the show at progress into its frame. Segments are painted
// in config order after every channel has been applied.
func (s *Show) Render(progress uint16) {
	s.Frame.Fill(s.Background)
	for _, seg := range s.order {
		seg.Reset()
	}
	s.Timeline.SetProgress(progress)
	for _, seg := range s.order {
		seg.Paint()
	}
}
