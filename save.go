package sectorfx

import (
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"
)

type savedLevel struct {
	Tic      int             `yaml:"tic"`
	Random   string          `yaml:"random"` // base64 generator state
	Thinkers []thinkerRecord `yaml:"thinkers"`
}

type thinkerRecord struct {
	Kind     string          `yaml:"kind"`
	Category ThinkerCategory `yaml:"category"`
	State    yaml.Node       `yaml:"state"`
}

var thinkerFactories = map[ThinkerKind]func() Thinker{
	KindFader:         func() Thinker { return &Fader{} },
	KindLightFader:    func() Thinker { return &LightFader{} },
	KindFlicker:       func() Thinker { return &LightFlicker{} },
	KindGlow:          func() Thinker { return &LightGlow{} },
	KindStrobe:        func() Thinker { return &LightStrobe{} },
	KindPlaneMover:    func() Thinker { return &PlaneMover{} },
	KindScroller:      func() Thinker { return &Scroller{} },
	KindPusher:        func() Thinker { return &Pusher{} },
	KindFriction:      func() Thinker { return &Friction{} },
	KindRaiser:        func() Thinker { return &Raiser{} },
	KindDisappearer:   func() Thinker { return &Disappearer{} },
	KindQuake:         func() Thinker { return &Quake{} },
	KindCrumble:       func() Thinker { return &Crumble{} },
	KindEachTime:      func() Thinker { return &EachTime{} },
	KindExecutorDelay: func() Thinker { return &ExecutorDelay{} },
	KindPolyFader:     func() Thinker { return &PolyFader{} },
}

func kindByName(name string) (ThinkerKind, bool) {
	for k, n := range thinkerKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// claimer is implemented by thinkers that own a slot on the level, such as
// a sector plane or an FOF fade, which has to point at them again after a
// load.
type claimer interface {
	claim(l *Level, ref ThinkerRef)
}

// snapshotter copies level state a thinker depends on into the thinker
// before it is saved.
type snapshotter interface {
	snapshot(l *Level)
}

func (d *Fader) claim(l *Level, ref ThinkerRef) {
	if f, ok := l.fof(d.FOF); ok {
		f.FadingData = ref
	}
}

func (d *PolyFader) claim(l *Level, ref ThinkerRef) {
	if d.Poly >= 0 && d.Poly < len(l.Polyobjs) {
		l.Polyobjs[d.Poly].FadingData = ref
	}
}

func (d *PlaneMover) claim(l *Level, ref ThinkerRef) {
	if s, ok := l.sector(d.Sector); ok {
		l.claimPlanes(s, d.Planes, ref)
	}
}

func (c *Crumble) snapshot(l *Level) {
	if s, ok := l.sector(c.Sector); ok {
		c.State = s.CrumbleState
	}
}

func (c *Crumble) claim(l *Level, ref ThinkerRef) {
	if s, ok := l.sector(c.Sector); ok {
		s.FloorData = ref
		s.CeilingData = ref
		s.CrumbleState = c.State
	}
}

func claimLighting(l *Level, sector int, ref ThinkerRef) {
	if s, ok := l.sector(sector); ok {
		s.LightingData = ref
	}
}

func (d *LightFader) claim(l *Level, ref ThinkerRef)   { claimLighting(l, d.Sector, ref) }
func (d *LightFlicker) claim(l *Level, ref ThinkerRef) { claimLighting(l, d.Sector, ref) }
func (d *LightGlow) claim(l *Level, ref ThinkerRef)    { claimLighting(l, d.Sector, ref) }
func (d *LightStrobe) claim(l *Level, ref ThinkerRef)  { claimLighting(l, d.Sector, ref) }

// SaveThinkers serializes every live thinker in run order together with the
// random stream. Thinkers refer to sectors, FOFs, lines and actors by index,
// so the records only load back into the same map.
func (l *Level) SaveThinkers() ([]byte, error) {
	rng, err := l.Random.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("sectorfx: save random: %w", err)
	}
	saved := savedLevel{Tic: l.Tic, Random: base64.StdEncoding.EncodeToString(rng)}

	var encodeErr error
	l.Thinkers.Each(func(ref ThinkerRef, c ThinkerCategory, t Thinker) {
		if encodeErr != nil {
			return
		}
		if s, ok := t.(snapshotter); ok {
			s.snapshot(l)
		}
		rec := thinkerRecord{Kind: t.Kind().String(), Category: c}
		if err := rec.State.Encode(t); err != nil {
			encodeErr = fmt.Errorf("sectorfx: save %s: %w", t.Kind(), err)
			return
		}
		saved.Thinkers = append(saved.Thinkers, rec)
	})
	if encodeErr != nil {
		return nil, encodeErr
	}

	data, err := yaml.Marshal(&saved)
	if err != nil {
		return nil, fmt.Errorf("sectorfx: marshal thinkers: %w", err)
	}
	return data, nil
}

// LoadThinkers replaces every thinker with the ones in data. On error the
// level keeps its current thinkers.
func (l *Level) LoadThinkers(data []byte) error {
	var saved savedLevel
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("sectorfx: unmarshal thinkers: %w", err)
	}
	rng, err := base64.StdEncoding.DecodeString(saved.Random)
	if err != nil {
		return fmt.Errorf("sectorfx: random state: %w", err)
	}

	type loaded struct {
		category ThinkerCategory
		thinker  Thinker
	}
	thinkers := make([]loaded, 0, len(saved.Thinkers))
	for i, rec := range saved.Thinkers {
		kind, ok := kindByName(rec.Kind)
		if !ok {
			return fmt.Errorf("sectorfx: thinker %d: unknown kind %q", i, rec.Kind)
		}
		if rec.Category < 0 || rec.Category >= numCategories {
			return fmt.Errorf("sectorfx: thinker %d: bad category %d", i, rec.Category)
		}
		t := thinkerFactories[kind]()
		if err := rec.State.Decode(t); err != nil {
			return fmt.Errorf("sectorfx: thinker %d (%s): %w", i, rec.Kind, err)
		}
		thinkers = append(thinkers, loaded{rec.Category, t})
	}
	if err := l.Random.UnmarshalBinary(rng); err != nil {
		return fmt.Errorf("sectorfx: random state: %w", err)
	}

	l.Thinkers.Clear()
	l.releaseClaims()
	for _, t := range thinkers {
		ref := l.Thinkers.Add(t.category, t.thinker)
		if c, ok := t.thinker.(claimer); ok {
			c.claim(l, ref)
		}
	}
	l.Tic = saved.Tic
	return nil
}

// releaseClaims forgets which thinkers own sector planes, lights and fades.
// Finished crumbles stay finished.
func (l *Level) releaseClaims() {
	for i := range l.Sectors {
		s := &l.Sectors[i]
		s.FloorData = ThinkerRef{}
		s.CeilingData = ThinkerRef{}
		s.LightingData = ThinkerRef{}
		if s.CrumbleState != CrumbleDone {
			s.CrumbleState = CrumbleNone
		}
	}
	for _, f := range l.FOFs {
		f.FadingData = ThinkerRef{}
	}
	for _, po := range l.Polyobjs {
		po.FadingData = ThinkerRef{}
	}
}
