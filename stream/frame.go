package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
)

// NumPixels is the number of LEDs on an ledrx device.
const NumPixels = 500

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels [NumPixels]colorful.Color
}

// NewFrame creates a new Frame instance.
func NewFrame() *Frame {
	f := new(Frame)
	return f
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// MarshalBinary converts a Frame into binary data.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (NumPixels*3)+2)
	binary.LittleEndian.PutUint16(data, NumPixels)
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
