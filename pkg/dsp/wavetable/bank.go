// Package wavetable owns wavetable frame storage, mip generation, and the
// setup-time bank registry. Nothing in this package is touched by the audio
// thread except read-only table lookups (see pkg/dsp/fixedpoint.ReadTable).
package wavetable

import (
	"fmt"
	"sync"

	"github.com/nverant/wavecore/pkg/dsp/fixedpoint"
)

const (
	// MaxMipLevels is the number of band-limited copies stored per frame.
	MaxMipLevels = 11
	// MaxFrames is the largest frame count a bank may hold.
	MaxFrames = 256
	// MaxNameLength is the largest display name a bank may carry.
	MaxNameLength = 64
	// MaxRegistryEntries bounds the process-wide bank registry.
	MaxRegistryEntries = 32
)

// Frame is a single single-cycle waveform stored as MaxMipLevels parallel
// tables of fixedpoint.TableSize floats each. Mip level k has frequencies
// above Nyquist/2^k band-limited out; level 0 is full-band.
type Frame struct {
	Mips [MaxMipLevels][]float32
}

// mipTable returns the table for the given mip level, clamped to the last
// level if k exceeds MaxMipLevels-1 (defensive; callers already clamp).
func (f *Frame) mipTable(k int) []float32 {
	if k < 0 {
		k = 0
	}
	if k >= MaxMipLevels {
		k = MaxMipLevels - 1
	}
	return f.Mips[k]
}

// Bank is an ordered sequence of 1..=MaxFrames frames plus a display name.
// A bank exclusively owns its frame storage; it is never copied, and
// oscillators hold only a non-owning reference. Bank contents are written
// once at construction and are read-only during audio processing, so no
// synchronization is required past construction (publication is causal).
type Bank struct {
	name   string
	frames []Frame
}

// Create builds a new bank of frameCount frames, each rendered from kind.
// It fails if frameCount is 0 or greater than MaxFrames, or if name exceeds
// MaxNameLength bytes.
func Create(frameCount int, name string, kind Kind) (*Bank, error) {
	if frameCount <= 0 || frameCount > MaxFrames {
		return nil, fmt.Errorf("wavetable: invalid frame count %d (want 1..%d)", frameCount, MaxFrames)
	}
	if len(name) > MaxNameLength {
		return nil, fmt.Errorf("wavetable: bank name %q exceeds %d bytes", name, MaxNameLength)
	}
	frames := make([]Frame, frameCount)
	for i := range frames {
		morph := float32(0)
		if frameCount > 1 {
			morph = float32(i) / float32(frameCount-1)
		}
		frames[i] = generateFrame(kind, morph)
	}
	return &Bank{name: name, frames: frames}, nil
}

// CreateFromFrames builds a bank from caller-supplied frames, for banks
// loaded from disk or synthesized by a collaborator rather than generated.
// Every frame must already carry MaxMipLevels tables of the correct length.
func CreateFromFrames(name string, frames []Frame) (*Bank, error) {
	if len(frames) == 0 || len(frames) > MaxFrames {
		return nil, fmt.Errorf("wavetable: invalid frame count %d (want 1..%d)", len(frames), MaxFrames)
	}
	if len(name) > MaxNameLength {
		return nil, fmt.Errorf("wavetable: bank name %q exceeds %d bytes", name, MaxNameLength)
	}
	for i, f := range frames {
		for k, t := range f.Mips {
			if len(t) != fixedpoint.TableSize {
				return nil, fmt.Errorf("wavetable: frame %d mip %d has length %d, want %d", i, k, len(t), fixedpoint.TableSize)
			}
		}
	}
	owned := make([]Frame, len(frames))
	copy(owned, frames)
	return &Bank{name: name, frames: owned}, nil
}

// Name returns the bank's display name.
func (b *Bank) Name() string { return b.name }

// NumFrames returns the number of frames owned by the bank.
func (b *Bank) NumFrames() int { return len(b.frames) }

// Frame returns a pointer to frame i, or nil if out of range. The caller
// never mutates through the returned pointer during audio processing.
func (b *Bank) Frame(i int) *Frame {
	if i < 0 || i >= len(b.frames) {
		return nil
	}
	return &b.frames[i]
}

// Registry holds process-wide named bank references, append-only during
// setup and read-only thereafter. Per the "no mutable statics" design note,
// Registry is an explicit value passed through the engine rather than a
// package-level global.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]*Bank
	order  []string
}

// NewRegistry creates an empty bank registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Bank, MaxRegistryEntries)}
}

// Register adds bank to the registry under its own name. It fails if the
// registry is full or a bank with that name is already registered.
func (r *Registry) Register(b *Bank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[b.name]; exists {
		return fmt.Errorf("wavetable: bank %q already registered", b.name)
	}
	if len(r.order) >= MaxRegistryEntries {
		return fmt.Errorf("wavetable: registry full (max %d banks)", MaxRegistryEntries)
	}
	r.byName[b.name] = b
	r.order = append(r.order, b.name)
	return nil
}

// GetByName returns the bank registered under name, or nil if not found.
// Safe to call from the audio thread: lookups after setup never contend
// with a writer because Register is only ever called before note processing
// begins.
func (r *Registry) GetByName(name string) *Bank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Count returns the number of registered banks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
