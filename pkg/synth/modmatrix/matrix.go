// Package modmatrix implements a fixed-capacity source-to-destination
// modulation routing table with per-block step interpolation, in the style
// of the framework's voice allocator: plain structs, no interfaces, no
// allocation on the audio thread.
package modmatrix

// Source identifies a modulation source. The set is closed and exhaustive.
type Source uint8

const (
	NoSrc Source = iota
	LFO1
	LFO2
	Env1
	Env2
	ModWheel
	Velocity
	KeyTrack
	Aftertouch

	sourceCount
)

// Dest identifies a modulation destination. The set is closed and
// exhaustive.
type Dest uint8

const (
	NoDest Dest = iota
	Osc1Pitch
	Osc2Pitch
	Osc3Pitch
	SubPitch
	FilterCutoff
	FilterResonance
	AmpLevel
	Osc1FM
	Osc2FM
	Osc3FM
	ScanPosition

	DestCount
)

// MaxRoutes bounds the routing table to a fixed, preallocated capacity.
const MaxRoutes = 16

// Route is one source-to-destination binding with a fixed depth.
type Route struct {
	Source Source
	Dest   Dest
	Amount float32
}

// SourceValues holds one sample's worth of source outputs for a single
// voice, supplied by the engine before a per-block update.
type SourceValues [sourceCount]float32

// destState tracks the per-block interpolation ramp for one destination.
type destState struct {
	previous float32
	current  float32
	step     float32
}

// Matrix is a fixed-capacity route table shared by every voice, plus one
// per-destination interpolation ramp per voice slot: each voice's ramp
// starts from that same voice's own previous-block value, never from
// whichever voice last called UpdateBlock.
type Matrix struct {
	routes []Route
	dests  [][DestCount]destState
}

// New creates an empty modulation matrix sized for maxVoices simultaneous
// voice ramps.
func New(maxVoices int) *Matrix {
	return &Matrix{
		routes: make([]Route, 0, MaxRoutes),
		dests:  make([][DestCount]destState, maxVoices),
	}
}

// AddRoute appends a route, failing when the table is at capacity.
func (m *Matrix) AddRoute(src Source, dst Dest, amount float32) bool {
	if len(m.routes) >= MaxRoutes {
		return false
	}
	m.routes = append(m.routes, Route{Source: src, Dest: dst, Amount: amount})
	return true
}

// RemoveRoute removes the route at index via swap-with-last, failing if
// index is out of range.
func (m *Matrix) RemoveRoute(index int) bool {
	if index < 0 || index >= len(m.routes) {
		return false
	}
	last := len(m.routes) - 1
	m.routes[index] = m.routes[last]
	m.routes = m.routes[:last]
	return true
}

// ClearRoutes empties the routing table.
func (m *Matrix) ClearRoutes() {
	m.routes = m.routes[:0]
}

// RouteCount reports the number of active routes.
func (m *Matrix) RouteCount() int { return len(m.routes) }

// UpdateBlock recomputes, for every destination, the sum of
// amount*source.value across matching routes using voice's source values,
// and stores the resulting per-sample step against blockFrames in that
// voice's own ramp state so that Value(voice, dest, i) can be read during
// sample generation without recomputing the sum every frame. Call once per
// active voice per block, before rendering that voice.
func (m *Matrix) UpdateBlock(voice int, sources SourceValues, blockFrames int) {
	var sums [DestCount]float32
	for _, r := range m.routes {
		if r.Dest == NoDest || r.Dest >= DestCount {
			continue
		}
		sums[r.Dest] += r.Amount * sources[r.Source]
	}
	n := float32(blockFrames)
	dests := &m.dests[voice]
	for d := Dest(0); d < DestCount; d++ {
		st := &dests[d]
		st.previous = st.current
		st.current = sums[d]
		if n > 0 {
			st.step = (st.current - st.previous) / n
		} else {
			st.step = 0
		}
	}
}

// Value returns the interpolated modulation value for dest at frame i
// within voice's current block: previous + step*i.
func (m *Matrix) Value(voice int, dest Dest, frame int) float32 {
	if dest >= DestCount {
		return 0
	}
	st := &m.dests[voice][dest]
	return st.previous + st.step*float32(frame)
}

// Reset clears every voice's destination ramps to zero, used when the
// engine restarts or the block size changes.
func (m *Matrix) Reset() {
	for v := range m.dests {
		m.dests[v] = [DestCount]destState{}
	}
}

// ResetVoice clears a single voice's destination ramps to zero, used when a
// voice is retriggered so a new note never inherits the freed voice's
// stale ramp.
func (m *Matrix) ResetVoice(voice int) {
	m.dests[voice] = [DestCount]destState{}
}
