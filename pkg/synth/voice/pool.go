// Package voice implements the fixed-capacity voice pool: allocation,
// retriggering and stealing on note-on, release on note-off. The pool
// itself carries no oscillator or filter state — those live in
// structure-of-arrays owned by the engine, indexed by voice slot; the pool
// only tracks the bookkeeping fields needed to decide which slot a note
// lands on.
package voice

// State is the per-voice bookkeeping the pool owns. Oscillator phase,
// envelope and filter state live in the engine's structure-of-arrays,
// indexed by the same slot.
type State struct {
	Active    bool
	Releasing bool
	MidiNote  uint8
	Velocity  uint8
	Age       uint64
}

// Pool is a fixed-capacity array of voice slots plus the monotonic note
// counter used to stamp Age.
type Pool struct {
	voices    []State
	noteCount uint64
}

// New creates a pool with maxVoices slots, all initially free.
func New(maxVoices int) *Pool {
	return &Pool{voices: make([]State, maxVoices)}
}

// Len reports the pool's fixed capacity.
func (p *Pool) Len() int { return len(p.voices) }

// State returns a pointer to slot i's bookkeeping state for the engine to
// inspect after allocation.
func (p *Pool) State(i int) *State { return &p.voices[i] }

// NoteOn selects a voice slot for (note, velocity) following the fixed
// allocation algorithm: reuse an active, non-releasing voice already
// playing this note (retrigger), else take any free voice, else steal —
// preferring the oldest voice in Release, falling back to the oldest
// active voice overall. It returns the chosen slot index only; the caller
// resets phase and envelope whether or not the slot was a retrigger.
func (p *Pool) NoteOn(note, velocity uint8) int {
	for i := range p.voices {
		v := &p.voices[i]
		if v.Active && v.MidiNote == note && !v.Releasing {
			p.activate(i, note, velocity)
			return i
		}
	}

	for i := range p.voices {
		if !p.voices[i].Active {
			p.activate(i, note, velocity)
			return i
		}
	}

	idx := p.stealTarget()
	p.activate(idx, note, velocity)
	return idx
}

func (p *Pool) activate(i int, note, velocity uint8) {
	p.noteCount++
	v := &p.voices[i]
	v.Active = true
	v.Releasing = false
	v.MidiNote = note
	v.Velocity = velocity
	v.Age = p.noteCount
}

// stealTarget picks the oldest releasing voice if any exist, else the
// oldest active voice overall. The pool is never empty of candidates once
// full, since every slot is either free (caught above), releasing, or
// active.
func (p *Pool) stealTarget() int {
	oldestReleasing, oldestReleasingAge := -1, ^uint64(0)
	oldestActive, oldestActiveAge := -1, ^uint64(0)

	for i := range p.voices {
		v := &p.voices[i]
		if v.Releasing && v.Age < oldestReleasingAge {
			oldestReleasing, oldestReleasingAge = i, v.Age
		}
		if v.Age < oldestActiveAge {
			oldestActive, oldestActiveAge = i, v.Age
		}
	}

	if oldestReleasing != -1 {
		return oldestReleasing
	}
	return oldestActive
}

// NoteOff marks every active, non-releasing voice playing note as
// releasing, returning their slot indices so the caller can trigger each
// voice's envelope release. Retriggered notes may occupy multiple slots
// simultaneously; all of them release together.
func (p *Pool) NoteOff(note uint8, released []int) []int {
	released = released[:0]
	for i := range p.voices {
		v := &p.voices[i]
		if v.Active && v.MidiNote == note && !v.Releasing {
			v.Releasing = true
			released = append(released, i)
		}
	}
	return released
}

// Free marks slot i inactive and available for reuse, called by the engine
// once that voice's envelope reaches Idle.
func (p *Pool) Free(i int) {
	v := &p.voices[i]
	v.Active = false
	v.Releasing = false
}

// Reset clears every slot, used at engine startup or full panic-reset.
func (p *Pool) Reset() {
	for i := range p.voices {
		p.voices[i] = State{}
	}
	p.noteCount = 0
}
