package stream

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

const defaultFrameRate = 30.0

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	HTTP struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"http"`
	Show ShowConfig `yaml:"show"`
}

// ShowConfig describes the segments of the strip and the timeline of
// animations played on them.
type ShowConfig struct {
	FrameRate  float64           `yaml:"frameRate"`
	Loop       bool              `yaml:"loop"`
	Reverse    bool              `yaml:"reverse"`
	Restart    string            `yaml:"restart"`
	Background string            `yaml:"background"`
	Segments   []SegmentConfig   `yaml:"segments"`
	Animations []AnimationConfig `yaml:"animations"`
}

type SegmentConfig struct {
	Name     string        `yaml:"name"`
	From     int           `yaml:"from"`
	To       int           `yaml:"to"`
	Colour   string        `yaml:"colour"`
	ToColour string        `yaml:"toColour"`
	Gradient GradientTable `yaml:"gradient"`
}

// AnimationConfig places one animated channel of a segment on the timeline.
// Offset and Duration are in milliseconds.
type AnimationConfig struct {
	Segment  string `yaml:"segment"`
	Channel  string `yaml:"channel"`
	Offset   uint32 `yaml:"offset"`
	Duration uint32 `yaml:"duration"`
	Start    int32  `yaml:"start"`
	End      int32  `yaml:"end"`
	Path     string `yaml:"path"`
}

// DecodeConfig reads a YAML config and fills in defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	var config Config
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if config.Mqtt.Topics.Stream == "" {
		config.Mqtt.Topics.Stream = "home/xmastree/stream"
	}
	if config.HTTP.Listen == "" {
		config.HTTP.Listen = ":3000"
	}
	if config.HTTP.Static == "" {
		config.HTTP.Static = "client/dist"
	}
	if config.Show.FrameRate <= 0 {
		config.Show.FrameRate = defaultFrameRate
	}
	if config.Show.Background == "" {
		config.Show.Background = "#000000"
	}

	return config, nil
}

// LoadConfig reads the config file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	config, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// RestartRequired lists the sections of next that differ from c and only
// take effect when the process starts. A reload applies just the show.
func (c Config) RestartRequired(next Config) []string {
	var sections []string
	if c.Mqtt != next.Mqtt {
		sections = append(sections, "mqtt")
	}
	if c.HTTP != next.HTTP {
		sections = append(sections, "http")
	}
	return sections
}
