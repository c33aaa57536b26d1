package stream

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtl/anim"
)

// valueScale is the animated value that means "fully on" for the
// fractional channels.
const valueScale = 1000

// A Segment is a run of pixels [From, To) on a Frame that animations write to.
// Channels only change the segment's state; Paint draws it once per frame so
// that several channels on one segment combine.
type Segment struct {
	Name     string
	From     int
	To       int
	Colour   colorful.Color
	ToColour colorful.Color
	Gradient GradientTable

	frame *Frame
	state segmentState
}

type segmentState struct {
	brightness float64
	hue        float64
	hasHue     bool
	blend      float64
	hasBlend   bool
	gradient   float64
	hasGrad    bool
	fill       float64
	hasFill    bool
	position   int
	hasPos     bool
}

// NewSegment creates a Segment that draws into frame.
func NewSegment(name string, from, to int, colour, toColour colorful.Color, frame *Frame) *Segment {
	s := new(Segment)
	s.Name = name
	s.From = from
	s.To = to
	s.Colour = colour
	s.ToColour = toColour
	s.Gradient = DefaultGradient
	s.frame = frame
	s.Reset()
	return s
}

// Reset clears the state left by the channels of the previous frame.
func (s *Segment) Reset() {
	s.state = segmentState{brightness: 1}
}

// colour combines the colour channels: blend or gradient pick the base
// colour, hue replaces its hue and brightness dims the result.
func (s *Segment) colour() colorful.Color {
	st := &s.state
	base := s.Colour
	if st.hasBlend {
		base = base.BlendHcl(s.ToColour, st.blend)
	}
	h, c, l := base.Hcl()
	if st.hasGrad {
		h, _, _ = s.Gradient.GetColor(st.gradient, c, l).Hcl()
	}
	if st.hasHue {
		h = st.hue
	}
	// Chroma is scaled with luminance so that brightness 0 is black.
	return colorful.Hcl(h, c*st.brightness, l*st.brightness).Clamped()
}

// Paint draws the segment into its frame. Without a fill or position
// channel the whole segment is lit.
func (s *Segment) Paint() {
	c := s.colour()
	st := &s.state
	if st.hasPos {
		if st.position >= s.From && st.position < s.To {
			s.frame.pixels[st.position] = c
		}
		if !st.hasFill {
			return
		}
	}

	end := s.To
	if st.hasFill {
		end = s.From + int(math.Round(st.fill*float64(s.To-s.From)))
	}
	for i := s.From; i < end; i++ {
		s.frame.pixels[i] = c
	}
}

func fraction(value int32) float64 {
	return math.Max(0, math.Min(1, float64(value)/valueScale))
}

func segmentOf(target interface{}) *Segment {
	s, ok := target.(*Segment)
	if !ok {
		panic(fmt.Sprintf("stream: animation target %T is not a *Segment", target))
	}
	return s
}

// ExecBrightness dims the segment by value/1000.
func ExecBrightness(target interface{}, value int32) {
	s := segmentOf(target)
	s.state.brightness = fraction(value)
}

// ExecHue sets the hue of the segment to value degrees.
func ExecHue(target interface{}, value int32) {
	s := segmentOf(target)
	h := math.Mod(float64(value), 360)
	if h < 0 {
		h += 360
	}
	s.state.hue = h
	s.state.hasHue = true
}

// ExecBlend blends from Colour to ToColour by value/1000.
func ExecBlend(target interface{}, value int32) {
	s := segmentOf(target)
	s.state.blend = fraction(value)
	s.state.hasBlend = true
}

// ExecGradient takes the hue from the segment gradient at value/1000.
func ExecGradient(target interface{}, value int32) {
	s := segmentOf(target)
	s.state.gradient = fraction(value)
	s.state.hasGrad = true
}

// ExecPosition lights only the pixel From+value. Positions outside the
// segment light nothing.
func ExecPosition(target interface{}, value int32) {
	s := segmentOf(target)
	s.state.position = s.From + int(value)
	s.state.hasPos = true
}

// ExecFill lights the first value/1000 of the segment.
func ExecFill(target interface{}, value int32) {
	s := segmentOf(target)
	s.state.fill = fraction(value)
	s.state.hasFill = true
}

var channels = map[string]anim.ExecFunc{
	"brightness": ExecBrightness,
	"hue":        ExecHue,
	"blend":      ExecBlend,
	"gradient":   ExecGradient,
	"position":   ExecPosition,
	"fill":       ExecFill,
}

// ChannelByName looks up the ExecFunc for a channel name.
func ChannelByName(name string) (anim.ExecFunc, error) {
	exec, ok := channels[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", name)
	}
	return exec, nil
}
