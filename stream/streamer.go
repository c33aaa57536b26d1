package stream

import (
	"fmt"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const publishTimeout = time.Second

// A Publisher is the part of an mqtt.Client that a Streamer needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	client Publisher
	topic  string
	log    zerolog.Logger
	sent   uint64
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(client Publisher, topic string, logger zerolog.Logger) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topic = topic
	s.log = logger
	return s
}

// SendFrame sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	token := s.client.Publish(s.topic, 0, false, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timed out", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topic, err)
	}

	s.sent++
	if s.sent%1000 == 0 {
		s.log.Debug().Uint64("frames", s.sent).Str("topic", s.topic).Msg("Frames sent")
	}
	return nil
}
