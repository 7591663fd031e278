// Package audiodriver adapts the engine's block processor to a realtime
// audio output driver, in the style of the reference sound-chip player: an
// atomic pointer to a render callback lets Read() stay lock-free on the
// audio thread while setup/teardown take a mutex.
package audiodriver

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// RenderFunc fills out with one block of samples: channelCount channels of
// frameCount frames each, stored channel-major as out[ch*frameCount+i]
// (matching Engine.ProcessAudioBlock's layout).
type RenderFunc func(out []float32, channelCount, frameCount int)

// Player drives an oto.Player from a RenderFunc, converting the engine's
// channel-major float32 output into oto's interleaved little-endian
// float32 byte stream.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	sampleRate   int
	channelCount int

	render atomic.Pointer[RenderFunc]

	scratch    []float32
	interleave []float32

	mu      sync.Mutex
	started bool
}

// NewPlayer opens an oto output context at sampleRate with channelCount
// channels of 32-bit float PCM. The player does not start producing sound
// until SetRenderFunc and Start are both called.
func NewPlayer(sampleRate, channelCount int) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // let oto pick a low-latency default
	})
	if err != nil {
		return nil, err
	}
	<-ready

	p := &Player{
		ctx:          ctx,
		sampleRate:   sampleRate,
		channelCount: channelCount,
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// SetRenderFunc atomically installs the block-rendering callback. Safe to
// call while the player is running; Read() always uses the most recently
// installed function.
func (p *Player) SetRenderFunc(fn RenderFunc) {
	p.render.Store(&fn)
}

// Read implements io.Reader for oto's pull-based player. len(out)/4 gives
// the float32 sample count oto is requesting; it is converted to a frame
// count via the fixed channel count, rendered through the installed
// RenderFunc, then interleaved into out as little-endian float32 bytes.
func (p *Player) Read(out []byte) (int, error) {
	sampleCount := len(out) / 4
	frameCount := sampleCount / p.channelCount
	if frameCount == 0 {
		for i := range out {
			out[i] = 0
		}
		return len(out), nil
	}

	needed := p.channelCount * frameCount
	if cap(p.scratch) < needed {
		p.scratch = make([]float32, needed)
		p.interleave = make([]float32, needed)
	}
	scratch := p.scratch[:needed]
	interleave := p.interleave[:needed]

	fn := p.render.Load()
	if fn == nil {
		for i := range scratch {
			scratch[i] = 0
		}
	} else {
		(*fn)(scratch, p.channelCount, frameCount)
	}

	for ch := 0; ch < p.channelCount; ch++ {
		for i := 0; i < frameCount; i++ {
			interleave[i*p.channelCount+ch] = scratch[ch*frameCount+i]
		}
	}

	for i, s := range interleave {
		bits := float32bitsLE(s)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return len(out), nil
}

// Start begins playback; it is idempotent.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Stop halts playback but keeps the underlying player alive for a
// subsequent Start.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.player.Pause()
		p.started = false
	}
}

// Close releases the player and its context.
func (p *Player) Close() error {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.Close()
}
