// Package wavwriter renders engine output blocks straight to a 16-bit PCM
// WAV file using go-audio/wav, for offline rendering and regression
// captures instead of live audio output.
package wavwriter

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer encodes each float32 audio block as 16-bit PCM as it is written;
// Close finalizes the WAV header.
type Writer struct {
	file    *os.File
	encoder *wav.Encoder

	channelCount int
	scratch      []int
}

// Create opens path and prepares a WAV encoder for channelCount channels
// at sampleRate.
func Create(path string, sampleRate, channelCount int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavwriter: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, channelCount, 1)
	return &Writer{file: f, encoder: enc, channelCount: channelCount}, nil
}

// WriteBlock encodes one channel-major float32 block (out[ch*frameCount+i],
// matching Engine.ProcessAudioBlock's layout), converting to interleaved
// 16-bit PCM.
func (w *Writer) WriteBlock(block []float32, frameCount int) error {
	needed := frameCount * w.channelCount
	if cap(w.scratch) < needed {
		w.scratch = make([]int, needed)
	}
	samples := w.scratch[:needed]

	for ch := 0; ch < w.channelCount; ch++ {
		for i := 0; i < frameCount; i++ {
			samples[i*w.channelCount+ch] = floatToPCM16(block[ch*frameCount+i])
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: w.channelCount,
			SampleRate:  int(w.encoder.SampleRate),
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	return w.encoder.Write(buf)
}

// Close flushes the WAV header and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// floatToPCM16 converts a [-1,1] float sample to a clamped 16-bit signed
// PCM value.
func floatToPCM16(s float32) int {
	v := math.Round(float64(s) * 32767)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int(v)
}
