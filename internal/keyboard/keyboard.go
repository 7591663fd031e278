// Package keyboard reads raw terminal input and maps the bottom two rows
// of a US QWERTY keyboard to a chromatic scale, in the style of the
// reference terminal host: raw mode via golang.org/x/term, a background
// goroutine reading single bytes, and a stop channel for clean teardown.
package keyboard

import (
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/nverant/wavecore/pkg/midi"
)

// keyReleaseTimeout is how long the host waits without seeing a key's
// terminal auto-repeat before treating it as released. Raw terminal input
// carries no key-up event, so this substitutes for one.
const keyReleaseTimeout = 150 * time.Millisecond

// baseNote is the MIDI note the 'a' key maps to.
const baseNote = 64

// keyOrder lists the chromatic key sequence across the bottom two rows,
// left to right, one semitone apart.
var keyOrder = []byte{'a', 'w', 's', 'e', 'd', 'f', 't', 'g', 'y', 'h', 'u', 'j', 'k', 'o', 'l', 'p'}

// keyToSemitone maps each key in keyOrder to its offset from baseNote.
var keyToSemitone = buildKeyMap()

func buildKeyMap() map[byte]int {
	m := make(map[byte]int, len(keyOrder))
	for i, k := range keyOrder {
		m[k] = i
	}
	return m
}

// Host reads raw stdin bytes and turns them into NoteEvent pushes on
// noteQueue, tracking which keys are currently held so releasing a key
// sends the matching NoteOff exactly once, plus an octave shift controlled
// by 'z'/'x'. ESC (0x1B) requests termination via Done().
type Host struct {
	noteQueue *midi.NoteQueue

	fd           int
	oldTermState *term.State

	stopCh chan struct{}
	done   chan struct{}
	stopped sync.Once

	mu          sync.Mutex
	octaveShift int
	held        map[byte]*heldKey
}

// heldKey tracks the note currently sounding for a physical key and the
// timer that will send its NoteOff if the key stops repeating.
type heldKey struct {
	note  uint8
	timer *time.Timer
}

// NewHost creates a keyboard host that pushes note events onto noteQueue.
func NewHost(noteQueue *midi.NoteQueue) *Host {
	return &Host{
		noteQueue: noteQueue,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		held:      make(map[byte]*heldKey),
	}
}

// Start puts stdin into raw mode and begins reading keys in a background
// goroutine. Call Stop to restore the terminal.
func (h *Host) Start() error {
	h.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldTermState = oldState

	go h.readLoop()
	return nil
}

// Done returns a channel that closes once the reading goroutine has exited,
// whether because the caller pressed ESC or because Stop was called.
func (h *Host) Done() <-chan struct{} { return h.done }

// Stop terminates the reading goroutine and restores the terminal.
func (h *Host) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// readLoop is the single producer thread that owns h.noteQueue's Push
// side; it is the only goroutine allowed to call Push.
func (h *Host) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-h.stopCh:
			return
		default:
		}
		n, err := os.Stdin.Read(buf)
		if n == 0 || err != nil {
			continue
		}
		b := buf[0]
		if b == 0x1B {
			h.stopped.Do(func() { close(h.stopCh) })
			return
		}
		h.handleKey(b)
	}
}

// handleKey translates one raw key byte into a note-on and (re)arms that
// key's release timer, or applies an octave shift. A held key auto-repeats
// through the terminal, which keeps re-arming the timer; releasing it lets
// the timer fire and send the NoteOff.
func (h *Host) handleKey(b byte) {
	switch b {
	case 'z':
		h.shiftOctave(-1)
		return
	case 'x':
		h.shiftOctave(1)
		return
	}

	semitone, ok := keyToSemitone[b]
	if !ok {
		return
	}

	h.mu.Lock()
	note := uint8(baseNote + semitone + 12*h.octaveShift)
	existing, wasHeld := h.held[b]
	if wasHeld {
		existing.timer.Stop()
		if existing.note != note {
			h.noteQueue.Push(midi.NoteEvent{Type: midi.NoteOff, MidiNote: existing.note})
			wasHeld = false
		}
	}
	hk := &heldKey{note: note}
	hk.timer = time.AfterFunc(keyReleaseTimeout, func() { h.release(b) })
	h.held[b] = hk
	h.mu.Unlock()

	if !wasHeld {
		h.noteQueue.Push(midi.NoteEvent{Type: midi.NoteOn, MidiNote: note, Velocity: 100})
	}
}

// release fires when a held key's terminal auto-repeat stops arriving; it
// sends the matching NoteOff and forgets the key.
func (h *Host) release(b byte) {
	h.mu.Lock()
	hk, ok := h.held[b]
	if ok {
		delete(h.held, b)
	}
	h.mu.Unlock()
	if ok {
		h.noteQueue.Push(midi.NoteEvent{Type: midi.NoteOff, MidiNote: hk.note})
	}
}

func (h *Host) shiftOctave(delta int) {
	h.mu.Lock()
	h.octaveShift += delta
	if h.octaveShift < -3 {
		h.octaveShift = -3
	}
	if h.octaveShift > 3 {
		h.octaveShift = 3
	}
	h.mu.Unlock()
}
