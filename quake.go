package sectorfx

// quakeBuffer is the distance inside which a radius-bounded quake is felt at
// full strength.
const quakeBuffer = 256

// Quake shakes every player's view. Its intensity falls off linearly with
// the remaining time and, when Radius is set, with the distance from the
// epicenter. The epicenter follows Actor while that actor is alive.
type Quake struct {
	Intensity float64 `yaml:"intensity"`
	Time      int     `yaml:"time"`
	StartTime int     `yaml:"starttime"`
	Radius    float64 `yaml:"radius"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Z         float64 `yaml:"z"`
	Actor     int     `yaml:"actor"` // -1 for a fixed epicenter
}

func (q *Quake) Kind() ThinkerKind { return KindQuake }

func (q *Quake) Think(l *Level, self ThinkerRef) {
	if q.Time <= 0 || q.StartTime <= 0 {
		l.Thinkers.Remove(self)
		return
	}
	if a, ok := l.actor(q.Actor); ok {
		q.X, q.Y, q.Z = a.X, a.Y, a.Z
	}

	for _, p := range l.Players() {
		offset := q.offsetFor(p)
		if offset == 0 {
			continue
		}
		if (l.Tic+p.Player.Num)&1 != 0 {
			offset = -offset
		}
		v := l.view(p.Player.Num)
		v.X += offset
		v.Y += offset
		v.Z += offset
	}

	q.Time--
	if q.Time <= 0 {
		l.Thinkers.Remove(self)
	}
}

// offsetFor is the unsigned shake felt by one player this tic.
func (q *Quake) offsetFor(p *Actor) float64 {
	intensity := q.Intensity * float64(q.Time) / float64(q.StartTime)
	if q.Radius <= 0 {
		return intensity
	}
	dist := approxDistance(approxDistance(p.X-q.X, p.Y-q.Y), p.Z-q.Z)
	if dist >= q.Radius+quakeBuffer {
		return 0
	}
	if dist <= quakeBuffer {
		return intensity
	}
	return easeInCubic((dist-quakeBuffer)/q.Radius, intensity, 0)
}

// view returns the accumulator for player num, growing the table on demand.
func (l *Level) view(num int) *Point {
	for len(l.ViewOffsets) <= num {
		l.ViewOffsets = append(l.ViewOffsets, Point{})
	}
	return &l.ViewOffsets[num]
}

// resetViews clears the accumulators before the view thinkers run.
func (l *Level) resetViews() {
	for i := range l.ViewOffsets {
		l.ViewOffsets[i] = Point{}
	}
}

// finishViews clamps the summed quake offsets and hands them to players.
func (l *Level) finishViews() {
	limit := l.Config.MaxQuakeOffset
	for _, p := range l.Players() {
		v := l.view(p.Player.Num)
		if limit > 0 {
			v.X = clamp(v.X, -limit, limit)
			v.Y = clamp(v.Y, -limit, limit)
			v.Z = clamp(v.Z, -limit, limit)
		}
		p.Player.Quake = *v
	}
}

// StartQuake begins an earthquake lasting duration tics. With tracked set the
// epicenter follows that actor; otherwise it stays at (x, y, z).
func (l *Level) StartQuake(duration int, intensity, radius float64, x, y, z float64, tracked *Actor) ThinkerRef {
	q := &Quake{
		Intensity: intensity,
		Time:      max(duration, 1),
		StartTime: max(duration, 1),
		Radius:    max(radius, 0),
		X:         x,
		Y:         y,
		Z:         z,
		Actor:     -1,
	}
	if tracked != nil && !tracked.Removed {
		q.Actor = tracked.Index
		q.X, q.Y, q.Z = tracked.X, tracked.Y, tracked.Z
	}
	return l.Thinkers.Add(CategoryView, q)
}
