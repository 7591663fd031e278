// Command wavecoresynth is a minimal realtime demo host for pkg/synth: it
// wires a computer-keyboard note source, the wavetable/noise engine, and
// either a live audio output driver or an offline WAV render, the same way
// the reference terminal host wired a chip player to raw stdin.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/nverant/wavecore/internal/audiodriver"
	"github.com/nverant/wavecore/internal/keyboard"
	"github.com/nverant/wavecore/internal/wavwriter"
	"github.com/nverant/wavecore/pkg/dsp/oscillator"
	"github.com/nverant/wavecore/pkg/dsp/wavetable"
	"github.com/nverant/wavecore/pkg/framework/debug"
	"github.com/nverant/wavecore/pkg/midi"
	"github.com/nverant/wavecore/pkg/synth"
	"github.com/nverant/wavecore/pkg/synth/modmatrix"
)

// log is the host's ambient lifecycle logger; it never runs on the audio
// thread, only around setup, preset I/O, and shutdown.
var log = debug.New(os.Stderr, "wavecoresynth", debug.DefaultFlags)

const (
	sampleRate     = 48000
	channelCount   = 2
	maxVoices      = 16
	maxBlockFrames = 512
)

func main() {
	renderPath := flag.String("render", "", "if set, render to this WAV file instead of opening a live audio device")
	renderSeconds := flag.Float64("seconds", 4.0, "length of the offline render in seconds")
	savePresetPath := flag.String("save-preset", "", "if set, write the startup patch to this file and exit")
	loadPresetPath := flag.String("load-preset", "", "if set, apply the patch stored in this file before playing")
	flag.Parse()

	log.Info("building engine: sampleRate=%d maxVoices=%d", sampleRate, maxVoices)
	engine := buildEngine()
	noteQueue := midi.NewNoteQueue()
	paramQueue := midi.NewParamQueue()
	bindings := synth.NewBindings()
	presets := synth.NewPresetManager(bindings)
	trackStartupPatch(presets)

	if *loadPresetPath != "" {
		if err := applyPresetFile(engine, bindings, presets, *loadPresetPath); err != nil {
			log.Error("load preset %s: %v", *loadPresetPath, err)
			os.Exit(1)
		}
		log.Info("loaded preset from %s", *loadPresetPath)
	}

	if *savePresetPath != "" {
		if err := savePresetFile(presets, *savePresetPath); err != nil {
			log.Error("save preset %s: %v", *savePresetPath, err)
			os.Exit(1)
		}
		log.Info("saved preset to %s", *savePresetPath)
		return
	}

	if *renderPath != "" {
		log.Info("rendering %.1fs to %s", *renderSeconds, *renderPath)
		if err := renderToFile(engine, noteQueue, paramQueue, bindings, *renderPath, *renderSeconds); err != nil {
			log.Error("render: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := runLive(engine, noteQueue, paramQueue, bindings); err != nil {
		log.Error("playback: %v", err)
		os.Exit(1)
	}
}

// trackStartupPatch records buildEngine's hardcoded defaults in presets so
// that -save-preset has something meaningful to write before any live
// parameter change has come in over a ParamQueue.
func trackStartupPatch(presets *synth.PresetManager) {
	presets.Track(midi.ParamEvent{ID: synth.ParamMasterGain, Value: 0.3})
	presets.Track(midi.ParamEvent{ID: synth.ParamFilterCutoff, Value: float32((4000.0 - 20.0) / (20000.0 - 20.0))})
	presets.Track(midi.ParamEvent{ID: synth.ParamFilterResonance, Value: float32(0.2 / 0.99)})
	presets.Track(midi.ParamEvent{ID: synth.ParamAttack, Value: float32(5.0 / 5000)})
	presets.Track(midi.ParamEvent{ID: synth.ParamDecay, Value: float32(200.0 / 5000)})
	presets.Track(midi.ParamEvent{ID: synth.ParamSustain, Value: 0.7})
	presets.Track(midi.ParamEvent{ID: synth.ParamRelease, Value: float32(400.0 / 8000)})
}

// applyPresetFile loads path and pushes every restored parameter straight
// through bindings, mirroring what the audio thread would do if the events
// arrived over the ParamQueue during playback.
func applyPresetFile(e *synth.Engine, bindings *synth.Bindings, presets *synth.PresetManager, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := presets.Load(f)
	if err != nil {
		return err
	}
	for _, ev := range events {
		bindings.Apply(e, ev)
	}
	return nil
}

func savePresetFile(presets *synth.PresetManager, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return presets.Save(f)
}

// buildEngine constructs an Engine with a basic three-oscillator patch: a
// sine, plus a saw and a square sub each with OctaveOffset -1 (one semitone
// down, since NoteFrequency adds the offset to the semitone count),
// filtered through the SVF.
func buildEngine() *synth.Engine {
	e := synth.New(sampleRate, maxVoices, maxBlockFrames)

	sine, err := wavetable.Create(1, "sine", wavetable.Sine)
	if err != nil {
		panic(err)
	}
	saw, err := wavetable.Create(1, "saw", wavetable.Saw)
	if err != nil {
		panic(err)
	}
	square, err := wavetable.Create(1, "square", wavetable.Square)
	if err != nil {
		panic(err)
	}

	synth.SetWavetableBank(e, 0, sine)
	synth.SetWavetableBank(e, 1, saw)
	synth.SetWavetableBank(e, 2, sine)
	synth.SetWavetableBank(e, 3, square)

	e.SetOscillatorConfig(0, oscillator.WavetableConfig{Enabled: true, MixLevel: 0.6, FMSource: oscillator.FMNone})
	e.SetOscillatorConfig(1, oscillator.WavetableConfig{Enabled: true, MixLevel: 0.3, OctaveOffset: -1, FMSource: oscillator.FMNone})
	e.SetOscillatorConfig(2, oscillator.WavetableConfig{Enabled: false})
	e.SetOscillatorConfig(3, oscillator.WavetableConfig{Enabled: true, MixLevel: 0.2, OctaveOffset: -1})

	e.SetADSR(5, 200, 0.7, 400)
	e.SetFilterType(synth.FilterSVF)
	e.SetFilterCutoffResonance(4000, 0.2)
	e.SetMasterGain(0.6)

	e.LFO1().SetFrequency(5)
	e.LFO1().SetDepth(1)
	e.Matrix().AddRoute(modmatrix.LFO1, modmatrix.Osc1Pitch, 0.05)

	return e
}

func runLive(e *synth.Engine, noteQueue *midi.NoteQueue, paramQueue *midi.ParamQueue, bindings *synth.Bindings) error {
	player, err := audiodriver.NewPlayer(sampleRate, channelCount)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer player.Close()

	player.SetRenderFunc(func(out []float32, channels, frames int) {
		e.ProcessAudioBlock(out, channels, frames, noteQueue, paramQueue, bindings)
	})
	player.Start()

	kb := keyboard.NewHost(noteQueue)
	if err := kb.Start(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer kb.Stop()

	fmt.Println("wavecoresynth: play the bottom two rows of the keyboard, z/x to shift octaves, esc to quit")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	select {
	case <-sigCh:
	case <-kb.Done():
	}
	return nil
}

func renderToFile(e *synth.Engine, noteQueue *midi.NoteQueue, paramQueue *midi.ParamQueue, bindings *synth.Bindings, path string, seconds float64) error {
	w, err := wavwriter.Create(path, sampleRate, channelCount)
	if err != nil {
		return err
	}
	defer w.Close()

	noteQueue.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: 60, Velocity: 100})

	totalFrames := int(seconds * sampleRate)
	block := make([]float32, channelCount*maxBlockFrames)
	noteOffSent := false

	for rendered := 0; rendered < totalFrames; rendered += maxBlockFrames {
		frames := maxBlockFrames
		if rendered+frames > totalFrames {
			frames = totalFrames - rendered
		}
		if !noteOffSent && rendered > totalFrames/2 {
			noteQueue.Push(midi.NoteEvent{Type: midi.NoteOff, MidiNote: 60})
			noteOffSent = true
		}
		e.ProcessAudioBlock(block[:channelCount*frames], channelCount, frames, noteQueue, paramQueue, bindings)
		if err := w.WriteBlock(block[:channelCount*frames], frames); err != nil {
			return err
		}
	}
	return nil
}

