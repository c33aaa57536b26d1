package stream

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtl/util"
)

const showYAML = `
mqtt:
  url: tcp://broker:1883
show:
  loop: true
  background: "#000000"
  segments:
    - name: left
      from: 0
      to: 10
      colour: "#ff0000"
      toColour: "#0000ff"
    - name: right
      from: 10
      to: 20
      colour: "#00ff00"
  animations:
    - segment: left
      channel: blend
      offset: 0
      duration: 500
      start: 0
      end: 1000
    - segment: right
      channel: fill
      offset: 300
      duration: 400
      start: 0
      end: 1000
      path: step
`

func decodeShow(t *testing.T, doc string) *Show {
	t.Helper()
	config, err := DecodeConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	show, err := BuildShow(config.Show)
	if err != nil {
		t.Fatalf("BuildShow: %v", err)
	}
	return show
}

func sameColour(a, b colorful.Color) bool {
	ar, ag, ab := a.Clamped().RGB255()
	br, bg, bb := b.Clamped().RGB255()
	return ar == br && ag == bg && ab == bb
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := DecodeConfig(strings.NewReader(showYAML))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if config.Mqtt.URL != "tcp://broker:1883" {
		t.Fatalf("mqtt url = %q", config.Mqtt.URL)
	}
	if config.Mqtt.Topics.Stream != "home/xmastree/stream" {
		t.Fatalf("stream topic = %q", config.Mqtt.Topics.Stream)
	}
	if config.HTTP.Listen != ":3000" {
		t.Fatalf("listen = %q", config.HTTP.Listen)
	}
	if config.Show.FrameRate != defaultFrameRate {
		t.Fatalf("frame rate = %v, want %v", config.Show.FrameRate, defaultFrameRate)
	}
	if len(config.Show.Animations) != 2 || config.Show.Animations[1].Offset != 300 {
		t.Fatalf("animations = %+v", config.Show.Animations)
	}
}

func TestBuildShow(t *testing.T) {
	show := decodeShow(t, showYAML)
	if got := show.Timeline.Playtime(); got != 700 {
		t.Fatalf("Playtime = %d, want 700", got)
	}
	if show.Timeline.Len() != 2 {
		t.Fatalf("Len = %d, want 2", show.Timeline.Len())
	}
	if !show.Loop {
		t.Fatalf("Loop = false, want true")
	}
}

func TestShowRender(t *testing.T) {
	show := decodeShow(t, showYAML)
	red, _ := colorful.Hex("#ff0000")
	blue, _ := colorful.Hex("#0000ff")
	green, _ := colorful.Hex("#00ff00")
	black, _ := colorful.Hex("#000000")

	show.Render(0)
	if !sameColour(show.Frame.Pixel(0), red) {
		t.Fatalf("left at start = %v, want red", show.Frame.Pixel(0))
	}
	if !sameColour(show.Frame.Pixel(10), black) {
		t.Fatalf("right at start = %v, want background", show.Frame.Pixel(10))
	}

	show.Render(0xFFFF)
	if !sameColour(show.Frame.Pixel(9), blue) {
		t.Fatalf("left at end = %v, want blue", show.Frame.Pixel(9))
	}
	if !sameColour(show.Frame.Pixel(19), green) {
		t.Fatalf("right at end = %v, want green", show.Frame.Pixel(19))
	}
	if !sameColour(show.Frame.Pixel(20), black) {
		t.Fatalf("pixel outside segments = %v, want background", show.Frame.Pixel(20))
	}
}

func TestBuildShowErrors(t *testing.T) {
	cases := []struct {
		name   string
		config ShowConfig
	}{
		{"bad_background", ShowConfig{Background: "nope"}},
		{"unnamed_segment", ShowConfig{Segments: []SegmentConfig{{From: 0, To: 1}}}},
		{"duplicate_segment", ShowConfig{Segments: []SegmentConfig{{Name: "a", To: 1}, {Name: "a", To: 2}}}},
		{"segment_out_of_range", ShowConfig{Segments: []SegmentConfig{{Name: "a", From: 10, To: NumPixels + 1}}}},
		{"empty_segment", ShowConfig{Segments: []SegmentConfig{{Name: "a", From: 5, To: 5}}}},
		{"bad_colour", ShowConfig{Segments: []SegmentConfig{{Name: "a", To: 1, Colour: "#zz"}}}},
		{"unknown_segment", ShowConfig{Animations: []AnimationConfig{{Segment: "b", Channel: "hue"}}}},
		{"unknown_channel", ShowConfig{
			Segments:   []SegmentConfig{{Name: "a", To: 1}},
			Animations: []AnimationConfig{{Segment: "a", Channel: "sparkle"}},
		}},
		{"unknown_path", ShowConfig{
			Segments:   []SegmentConfig{{Name: "a", To: 1}},
			Animations: []AnimationConfig{{Segment: "a", Channel: "hue", Path: "wobble"}},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := BuildShow(c.config); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBuildShowReverse(t *testing.T) {
	show, err := BuildShow(ShowConfig{Reverse: true})
	if err != nil {
		t.Fatalf("BuildShow: %v", err)
	}
	if !show.Timeline.Reverse() {
		t.Fatalf("Reverse = false, want true")
	}
}

func TestExampleShowMidFill(t *testing.T) {
	config, err := LoadConfig("../config.example.yaml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	show, err := BuildShow(config.Show)
	if err != nil {
		t.Fatalf("BuildShow: %v", err)
	}

	// 2000 ms into the crown fill, before its hue animation starts.
	show.Render(util.ProgressAt(3500, show.Timeline.Playtime(), false))

	crown := show.Segments["crown"]
	if sameColour(show.Frame.Pixel(crown.From), show.Background) {
		t.Fatalf("pixel %d should be lit mid-fill", crown.From)
	}
	if !sameColour(show.Frame.Pixel(490), show.Background) {
		t.Fatalf("pixel 490 = %v, want background mid-fill", show.Frame.Pixel(490))
	}
}

func TestRenderResetsChannelsEachFrame(t *testing.T) {
	show := decodeShow(t, showYAML)
	show.Render(0xFFFF)
	show.Render(0)

	green, _ := colorful.Hex("#00ff00")
	if sameColour(show.Frame.Pixel(19), green) {
		t.Fatalf("fill from the previous frame leaked into the next")
	}
}

func TestRestartRequired(t *testing.T) {
	base, err := DecodeConfig(strings.NewReader(showYAML))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}

	cases := []struct {
		name   string
		change func(c *Config)
		want   []string
	}{
		{"show_only", func(c *Config) { c.Show.Loop = false }, nil},
		{"mqtt", func(c *Config) { c.Mqtt.Topics.Stream = "other" }, []string{"mqtt"}},
		{"http", func(c *Config) { c.HTTP.Listen = ":8080" }, []string{"http"}},
		{"both", func(c *Config) {
			c.Mqtt.Password = "new"
			c.HTTP.Static = "www"
		}, []string{"mqtt", "http"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			next := base
			c.change(&next)
			got := base.RestartRequired(next)
			if len(got) != len(c.want) {
				t.Fatalf("RestartRequired = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("RestartRequired = %v, want %v", got, c.want)
				}
			}
		})
	}
}
