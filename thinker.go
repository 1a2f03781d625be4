package sectorfx

import "fmt"

// Thinker is a long-running effect advanced once per tic. A thinker ends
// itself by calling l.Thinkers.Remove(self).
type Thinker interface {
	Think(l *Level, self ThinkerRef)
	Kind() ThinkerKind
}

type ThinkerKind int

const (
	KindFader ThinkerKind = iota + 1
	KindLightFader
	KindFlicker
	KindGlow
	KindStrobe
	KindPlaneMover
	KindScroller
	KindPusher
	KindFriction
	KindRaiser
	KindDisappearer
	KindQuake
	KindCrumble
	KindEachTime
	KindExecutorDelay
	KindPolyFader
)

var thinkerKindNames = map[ThinkerKind]string{
	KindFader:         "fader",
	KindLightFader:    "lightfader",
	KindFlicker:       "flicker",
	KindGlow:          "glow",
	KindStrobe:        "strobe",
	KindPlaneMover:    "planemover",
	KindScroller:      "scroller",
	KindPusher:        "pusher",
	KindFriction:      "friction",
	KindRaiser:        "raiser",
	KindDisappearer:   "disappearer",
	KindQuake:         "quake",
	KindCrumble:       "crumble",
	KindEachTime:      "eachtime",
	KindExecutorDelay: "executordelay",
	KindPolyFader:     "polyfader",
}

func (k ThinkerKind) String() string {
	if name, ok := thinkerKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ThinkerCategory groups thinkers. Categories run in declaration order.
type ThinkerCategory int

const (
	CategoryMain  ThinkerCategory = iota // movers, faders, triggers
	CategoryForce                        // pushers and friction
	CategoryView                         // quakes
	numCategories
)

// ThinkerRef identifies a thinker by slot and generation. A ref to a removed
// thinker stays detectably stale after its slot is reused. The zero ref is
// never valid.
type ThinkerRef struct {
	Index int32
	Gen   uint32
}

func (r ThinkerRef) IsZero() bool {
	return r.Gen == 0
}

type thinkerSlot struct {
	thinker  Thinker
	gen      uint32
	category ThinkerCategory
	removed  bool
}

// Scheduler owns every thinker of a level. It is single threaded: thinkers
// may add and remove thinkers, including themselves, while it runs.
type Scheduler struct {
	slots   []thinkerSlot
	free    []int32
	lists   [numCategories][]int32 // slot indices in insertion order
	running bool
	swept   bool
}

// Add installs t at the end of category. A thinker added while the
// scheduler runs first thinks on the next tic.
func (s *Scheduler) Add(category ThinkerCategory, t Thinker) ThinkerRef {
	var idx int32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = int32(len(s.slots))
		s.slots = append(s.slots, thinkerSlot{gen: 1})
	}
	slot := &s.slots[idx]
	slot.thinker = t
	slot.category = category
	slot.removed = false
	s.lists[category] = append(s.lists[category], idx)
	return ThinkerRef{Index: idx, Gen: slot.gen}
}

// Remove marks a thinker as finished. The ref goes stale at once; the slot is
// reclaimed after the current run. Removing a stale ref returns false.
func (s *Scheduler) Remove(ref ThinkerRef) bool {
	slot, ok := s.slot(ref)
	if !ok {
		return false
	}
	slot.removed = true
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	s.swept = false
	if !s.running {
		s.sweep()
	}
	return true
}

// Get returns the thinker for ref, or false if it has been removed.
func (s *Scheduler) Get(ref ThinkerRef) (Thinker, bool) {
	slot, ok := s.slot(ref)
	if !ok {
		return nil, false
	}
	return slot.thinker, true
}

// Valid reports whether ref still names a live thinker.
func (s *Scheduler) Valid(ref ThinkerRef) bool {
	_, ok := s.slot(ref)
	return ok
}

func (s *Scheduler) slot(ref ThinkerRef) (*thinkerSlot, bool) {
	if ref.Gen == 0 || ref.Index < 0 || int(ref.Index) >= len(s.slots) {
		return nil, false
	}
	slot := &s.slots[ref.Index]
	if slot.removed || slot.gen != ref.Gen || slot.thinker == nil {
		return nil, false
	}
	return slot, true
}

// Run advances every live thinker once, category by category.
func (s *Scheduler) Run(l *Level) {
	s.running = true
	// Thinkers added during this pass, in any category, wait for the next tic.
	var counts [numCategories]int
	for c := range s.lists {
		counts[c] = len(s.lists[c])
	}
	for c := range s.lists {
		for i := 0; i < counts[c]; i++ {
			idx := s.lists[c][i]
			slot := &s.slots[idx]
			if slot.removed {
				continue
			}
			slot.thinker.Think(l, ThinkerRef{Index: idx, Gen: slot.gen})
		}
	}
	s.running = false
	s.sweep()
}

// sweep unlinks removed thinkers and frees their slots.
func (s *Scheduler) sweep() {
	if s.swept {
		return
	}
	for c := range s.lists {
		kept := s.lists[c][:0]
		for _, idx := range s.lists[c] {
			slot := &s.slots[idx]
			if slot.removed {
				if slot.thinker != nil {
					slot.thinker = nil
					s.free = append(s.free, idx)
				}
				continue
			}
			kept = append(kept, idx)
		}
		s.lists[c] = kept
	}
	s.swept = true
}

// Len returns the number of live thinkers.
func (s *Scheduler) Len() int {
	n := 0
	for c := range s.lists {
		n += s.CategoryLen(ThinkerCategory(c))
	}
	return n
}

func (s *Scheduler) CategoryLen(c ThinkerCategory) int {
	n := 0
	for _, idx := range s.lists[c] {
		if !s.slots[idx].removed {
			n++
		}
	}
	return n
}

// Each calls fn for every live thinker in run order.
func (s *Scheduler) Each(fn func(ref ThinkerRef, c ThinkerCategory, t Thinker)) {
	for c := range s.lists {
		for _, idx := range s.lists[c] {
			slot := &s.slots[idx]
			if slot.removed {
				continue
			}
			fn(ThinkerRef{Index: idx, Gen: slot.gen}, ThinkerCategory(c), slot.thinker)
		}
	}
}

func (s *Scheduler) refsOfKind(kind ThinkerKind) []ThinkerRef {
	var refs []ThinkerRef
	s.Each(func(ref ThinkerRef, _ ThinkerCategory, t Thinker) {
		if t.Kind() == kind {
			refs = append(refs, ref)
		}
	})
	return refs
}

// Clear drops every thinker. Outstanding refs become stale.
func (s *Scheduler) Clear() {
	for i := range s.slots {
		if s.slots[i].thinker != nil || !s.slots[i].removed {
			s.slots[i].gen++
			if s.slots[i].gen == 0 {
				s.slots[i].gen = 1
			}
		}
		s.slots[i].thinker = nil
		s.slots[i].removed = true
	}
	s.free = s.free[:0]
	for i := len(s.slots) - 1; i >= 0; i-- {
		s.free = append(s.free, int32(i))
	}
	for c := range s.lists {
		s.lists[c] = nil
	}
	s.swept = true
}

// thinkerAs fetches the thinker behind ref as a concrete type.
func thinkerAs[T Thinker](l *Level, ref ThinkerRef) (T, bool) {
	var zero T
	t, ok := l.Thinkers.Get(ref)
	if !ok {
		return zero, false
	}
	v, ok := t.(T)
	return v, ok
}
