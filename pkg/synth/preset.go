package synth

import (
	"io"

	"github.com/nverant/wavecore/pkg/framework/param"
	"github.com/nverant/wavecore/pkg/framework/state"
	"github.com/nverant/wavecore/pkg/midi"
)

// PresetManager persists the normalized value of every bound parameter to
// and from a byte stream. It mirrors the shadow copy a UI thread would keep
// of everything it has sent down the ParamQueue; the audio thread never
// reads the registry, only the ParamEvents PresetManager hands back from
// Load.
type PresetManager struct {
	registry *param.Registry
	manager  *state.Manager
}

// NewPresetManager builds a registry mirroring b's ParamID table and wraps
// it in a state.Manager for serialization.
func NewPresetManager(b *Bindings) *PresetManager {
	registry := NewParameterRegistry(b)
	return &PresetManager{
		registry: registry,
		manager:  state.NewManager(registry),
	}
}

// Track records a parameter change in the registry so a subsequent Save
// captures it. Call this alongside every ParamEvent pushed onto the
// engine's queue, from the same producer thread.
func (pm *PresetManager) Track(ev midi.ParamEvent) {
	if p := pm.registry.Get(uint32(ev.ID)); p != nil {
		p.SetValue(float64(ev.Value))
	}
}

// Save writes the current tracked state of every parameter to w.
func (pm *PresetManager) Save(w io.Writer) error {
	return pm.manager.Save(w)
}

// Load reads a preset from r and returns the ParamEvents to push onto the
// engine's ParamQueue so the audio thread picks up every restored value on
// its next block; Load itself never touches the audio thread.
func (pm *PresetManager) Load(r io.Reader) ([]midi.ParamEvent, error) {
	if err := pm.manager.Load(r); err != nil {
		return nil, err
	}
	all := pm.registry.All()
	events := make([]midi.ParamEvent, 0, len(all))
	for _, p := range all {
		events = append(events, midi.ParamEvent{
			ID:    midi.ParamID(p.ID),
			Value: float32(p.GetValue()),
		})
	}
	return events, nil
}
