package sectorfx

// LightFader moves a sector's light level toward a destination.
type LightFader struct {
	Sector   int     `yaml:"sector"`
	Source   int     `yaml:"source"`
	Dest     int     `yaml:"dest"`
	Speed    int     `yaml:"speed"` // light per tic, or total tics when tic based
	TicBased bool    `yaml:"ticbased"`
	Timer    int     `yaml:"timer"`
	Level    float64 `yaml:"level"`
}

func (d *LightFader) Kind() ThinkerKind { return KindLightFader }

func (d *LightFader) Think(l *Level, self ThinkerRef) {
	s, ok := l.sector(d.Sector)
	if !ok || s.LightingData != self {
		l.Thinkers.Remove(self)
		return
	}
	done := false
	if d.TicBased {
		d.Timer--
		if d.Timer <= 0 {
			d.Level = float64(d.Dest)
			done = true
		} else {
			progress := float64(d.Speed-d.Timer) / float64(d.Speed)
			d.Level = float64(d.Source) + float64(d.Dest-d.Source)*progress
		}
	} else {
		step := float64(d.Speed) * sign(float64(d.Dest)-d.Level)
		d.Level += step
		if (step >= 0 && d.Level >= float64(d.Dest)) || (step < 0 && d.Level <= float64(d.Dest)) {
			d.Level = float64(d.Dest)
			done = true
		}
	}
	s.LightLevel = int(d.Level)
	if done {
		s.LightingData = ThinkerRef{}
		l.Thinkers.Remove(self)
	}
}

// LightFlicker drops the light by random amounts below its maximum.
type LightFlicker struct {
	Sector   int `yaml:"sector"`
	MaxLight int `yaml:"maxlight"`
	MinLight int `yaml:"minlight"`
	Reset    int `yaml:"reset"`
	Count    int `yaml:"count"`
}

func (d *LightFlicker) Kind() ThinkerKind { return KindFlicker }

func (d *LightFlicker) Think(l *Level, self ThinkerRef) {
	s, ok := l.sector(d.Sector)
	if !ok || s.LightingData != self {
		l.Thinkers.Remove(self)
		return
	}
	d.Count--
	if d.Count > 0 {
		return
	}
	amount := l.Random.Key(4) * 16
	s.LightLevel = max(d.MaxLight-amount, d.MinLight)
	d.Count = d.Reset
}

// LightGlow pulses between two light levels.
type LightGlow struct {
	Sector    int `yaml:"sector"`
	MaxLight  int `yaml:"maxlight"`
	MinLight  int `yaml:"minlight"`
	Speed     int `yaml:"speed"`
	Direction int `yaml:"direction"`
}

func (d *LightGlow) Kind() ThinkerKind { return KindGlow }

func (d *LightGlow) Think(l *Level, self ThinkerRef) {
	s, ok := l.sector(d.Sector)
	if !ok || s.LightingData != self {
		l.Thinkers.Remove(self)
		return
	}
	if d.Direction < 0 {
		s.LightLevel -= d.Speed
		if s.LightLevel <= d.MinLight {
			s.LightLevel = d.MinLight
			d.Direction = 1
		}
	} else {
		s.LightLevel += d.Speed
		if s.LightLevel >= d.MaxLight {
			s.LightLevel = d.MaxLight
			d.Direction = -1
		}
	}
}

// LightStrobe alternates between a bright and a dark level.
type LightStrobe struct {
	Sector     int `yaml:"sector"`
	MaxLight   int `yaml:"maxlight"`
	MinLight   int `yaml:"minlight"`
	BrightTime int `yaml:"brighttime"`
	DarkTime   int `yaml:"darktime"`
	Count      int `yaml:"count"`
}

func (d *LightStrobe) Kind() ThinkerKind { return KindStrobe }

func (d *LightStrobe) Think(l *Level, self ThinkerRef) {
	s, ok := l.sector(d.Sector)
	if !ok || s.LightingData != self {
		l.Thinkers.Remove(self)
		return
	}
	d.Count--
	if d.Count > 0 {
		return
	}
	if s.LightLevel == d.MinLight {
		s.LightLevel = d.MaxLight
		d.Count = d.BrightTime
	} else {
		s.LightLevel = d.MinLight
		d.Count = d.DarkTime
	}
}

// removeLighting stops whatever light effect runs on s.
func (l *Level) removeLighting(s *Sector) {
	if l.Thinkers.Valid(s.LightingData) {
		l.Thinkers.Remove(s.LightingData)
	}
	s.LightingData = ThinkerRef{}
}

func (l *Level) addLighting(s *Sector, t Thinker) {
	l.removeLighting(s)
	s.LightingData = l.Thinkers.Add(CategoryMain, t)
}

// FadeLight starts fading s to dest.
func (l *Level) FadeLight(s *Sector, dest, speed int, ticBased bool) {
	dest = clamp(dest, 0, 255)
	if speed < 1 {
		l.removeLighting(s)
		s.LightLevel = dest
		return
	}
	d := &LightFader{Sector: s.Index, Source: s.LightLevel, Dest: dest, Level: float64(s.LightLevel)}
	if ticBased {
		d.TicBased = true
		d.Speed = speed
		d.Timer = speed
	} else {
		d.Speed = speed
	}
	l.addLighting(s, d)
}

// StartFlicker, StartGlow and StartStrobe take the two light levels in either
// order.
func (l *Level) StartFlicker(s *Sector, speed, light1, light2 int) {
	hi, lo := max(light1, light2), min(light1, light2)
	l.addLighting(s, &LightFlicker{Sector: s.Index, MaxLight: hi, MinLight: lo, Reset: max(speed, 1), Count: max(speed, 1)})
}

func (l *Level) StartGlow(s *Sector, speed, light1, light2 int) {
	hi, lo := max(light1, light2), min(light1, light2)
	l.addLighting(s, &LightGlow{Sector: s.Index, MaxLight: hi, MinLight: lo, Speed: max(speed, 1), Direction: -1})
}

func (l *Level) StartStrobe(s *Sector, brightTime, darkTime, darkLight int, inSync bool) {
	d := &LightStrobe{
		Sector:     s.Index,
		MaxLight:   s.LightLevel,
		MinLight:   min(darkLight, s.LightLevel),
		BrightTime: max(brightTime, 1),
		DarkTime:   max(darkTime, 1),
	}
	if d.MinLight == d.MaxLight {
		d.MinLight = 0
	}
	if inSync {
		d.Count = 1
	} else {
		d.Count = l.Random.Key(8) + 1
	}
	l.addLighting(s, d)
}
