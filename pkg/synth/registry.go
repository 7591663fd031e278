package synth

import (
	"github.com/nverant/wavecore/pkg/framework/param"
	"github.com/nverant/wavecore/pkg/midi"
)

// paramNames gives a human display name to the subset of ParamIDs a
// preset UI would want to list; ids missing here just show their
// numeric value. The audio thread never reads this map.
var paramNames = map[midi.ParamID]string{
	ParamMasterGain:       "Master Gain",
	ParamFilterCutoff:     "Filter Cutoff",
	ParamFilterResonance:  "Filter Resonance",
	ParamFilterDrive:      "Filter Drive",
	ParamFilterType:       "Filter Type",
	ParamAttack:           "Attack",
	ParamDecay:            "Decay",
	ParamSustain:          "Sustain",
	ParamRelease:          "Release",
	ParamOsc1Enabled:      "Osc 1 Enabled",
	ParamOsc1MixLevel:     "Osc 1 Level",
	ParamOsc1ScanPosition: "Osc 1 Scan",
	ParamOsc1OctaveOffset: "Osc 1 Octave",
	ParamOsc2Enabled:      "Osc 2 Enabled",
	ParamOsc2MixLevel:     "Osc 2 Level",
	ParamOsc2ScanPosition: "Osc 2 Scan",
	ParamOsc2OctaveOffset: "Osc 2 Octave",
	ParamOsc3Enabled:      "Osc 3 Enabled",
	ParamOsc3MixLevel:     "Osc 3 Level",
	ParamOsc3ScanPosition: "Osc 3 Scan",
	ParamOsc3OctaveOffset: "Osc 3 Octave",
	ParamSubEnabled:       "Sub Enabled",
	ParamSubMixLevel:      "Sub Level",
	ParamSubOctaveOffset:  "Sub Octave",
	ParamNoiseEnabled:     "Noise Enabled",
	ParamNoiseMixLevel:    "Noise Level",
	ParamNoiseType:        "Noise Type",
	ParamModWheel:         "Mod Wheel",
	ParamAftertouch:       "Aftertouch",
	ParamLFO1Frequency:    "LFO1 Rate",
	ParamLFO2Frequency:    "LFO2 Rate",
	ParamInsertBypass:     "FX Bypass",
	ParamReverbWetLevel:   "Reverb Wet",
	ParamTapeDrive:        "Tape Drive",
	ParamDelayRate:        "Delay Rate",
	ParamAutoPanEnabled:   "Auto-Pan Enabled",
	ParamAutoPanRate:      "Auto-Pan Rate",
	ParamAutoPanDepth:     "Auto-Pan Depth",
}

// rateParamIDs are the LFO/delay/pan-rate bindings whose plain range is
// already a Hz min/max/default triple RateParameter can take directly.
var rateParamIDs = map[midi.ParamID]bool{
	ParamLFO1Frequency: true,
	ParamLFO2Frequency: true,
	ParamDelayRate:     true,
	ParamAutoPanRate:   true,
}

// timeParamIDs are the envelope-stage bindings already expressed in
// milliseconds, matching TimeParameter's unit.
var timeParamIDs = map[midi.ParamID]bool{
	ParamAttack:  true,
	ParamDecay:   true,
	ParamRelease: true,
}

// filterTypeOptions and noiseTypeOptions give param.Choice the same
// two-valued vocabulary bindings.go's StorageBool/StorageWaveform switches
// use, so the registry's formatted value always agrees with what Apply
// would actually select.
var filterTypeOptions = []param.ChoiceOption{
	{Value: 0, Name: "SVF"},
	{Value: 1, Name: "Ladder"},
}

var noiseTypeOptions = []param.ChoiceOption{
	{Value: 0, Name: "White"},
	{Value: 1, Name: "Pink"},
}

// buildParameter picks the framework's closest-fitting param.Builder helper
// for id given bind's actual range, falling back to a generic percent
// display when nothing more specific applies. The chosen builder's own
// Min/Max may differ from bind's when the helper hardcodes a display range
// (e.g. GainParameter's dB scale) — that only affects how the registry
// formats a value for a human, never how Bindings.Apply denormalizes it,
// since PresetManager round-trips the raw normalized [0,1] value.
func buildParameter(id midi.ParamID, name string, bind binding) *param.Builder {
	switch {
	case id == ParamFilterType:
		return param.Choice(uint32(id), name, filterTypeOptions)
	case id == ParamNoiseType:
		return param.Choice(uint32(id), name, noiseTypeOptions)
	case id == ParamInsertBypass:
		return param.BypassParameter(uint32(id), name)
	case bind.storage == StorageBool:
		return param.New(uint32(id), name).Range(0, 1).Toggle().
			Formatter(param.OnOffFormatter, param.OnOffParser)
	case id == ParamFilterCutoff:
		return param.FrequencyParameter(uint32(id), name, bind.min, bind.max, 4000)
	case rateParamIDs[id]:
		return param.RateParameter(uint32(id), name, bind.min, bind.max, bind.min)
	case timeParamIDs[id]:
		return param.TimeParameter(uint32(id), name, bind.min, bind.max, bind.min)
	case id == ParamFilterResonance:
		return param.ResonanceParameter(uint32(id), name)
	default:
		builder := param.New(uint32(id), name).Range(bind.min, bind.max).Default(bind.min)
		if bind.max <= 1.0 {
			builder = builder.Unit("%").Formatter(
				func(v float64) string { return param.PercentFormatter(v * 100) },
				func(s string) (float64, error) {
					v, err := param.PercentParser(s)
					return v / 100, err
				},
			)
		}
		return builder
	}
}

// NewParameterRegistry builds an introspectable param.Registry mirroring
// Bindings' id/range table, for UI enumeration and preset serialization.
// Every entry starts at its builder's default, which is the binding's
// minimum unless the builder picks its own (as for the filter cutoff and
// resonance); the registry is populated
// live only by PresetManager.Track, and the audio thread never reads it.
func NewParameterRegistry(b *Bindings) *param.Registry {
	r := param.NewRegistry()
	for id, bind := range b.table {
		name, ok := paramNames[id]
		if !ok {
			name = "Param"
		}
		if err := r.Add(buildParameter(id, name, bind).Build()); err != nil {
			continue
		}
	}
	return r
}
