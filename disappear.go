package sectorfx

// Disappearer toggles the existence of the FOFs made by one master line,
// staying visible for AppearTime tics and gone for DisappearTime tics.
type Disappearer struct {
	AppearTime    int  `yaml:"appeartime"`
	DisappearTime int  `yaml:"disappeartime"`
	Offset        int  `yaml:"offset"` // tics to wait before the first change
	Timer         int  `yaml:"timer"`
	Master        int  `yaml:"master"` // FOF master line
	Source        int  `yaml:"source"` // line carrying the timings and the target tag
	Exists        bool `yaml:"exists"`
}

func (d *Disappearer) Kind() ThinkerKind { return KindDisappearer }

func (d *Disappearer) Think(l *Level, self ThinkerRef) {
	master, ok := l.line(d.Master)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	source, ok := l.line(d.Source)
	if !ok {
		l.Thinkers.Remove(self)
		return
	}
	if d.Offset > 0 {
		d.Offset--
		return
	}
	d.Timer--
	if d.Timer > 0 {
		return
	}

	for _, s := range l.SectorsByTag(source.Tag()) {
		for _, f := range s.FFloors {
			if f.Master != master {
				continue
			}
			if d.Exists {
				f.Flags &^= FFExists
			} else {
				f.Flags |= FFExists
				if source.Flags&LineNoClimb == 0 {
					l.Host.StartSound(s, nil, "appear")
				}
			}
		}
		s.Moved = true
	}

	if d.Exists {
		d.Timer = d.DisappearTime
	} else {
		d.Timer = d.AppearTime
	}
	d.Exists = !d.Exists
}

// AddDisappearer starts toggling the FOFs of master, visible first.
func (l *Level) AddDisappearer(appear, disappear, offset int, master, source *Line) ThinkerRef {
	return l.Thinkers.Add(CategoryMain, &Disappearer{
		AppearTime:    max(appear, 1),
		DisappearTime: max(disappear, 1),
		Offset:        offset,
		Timer:         max(appear, 1),
		Master:        master.Index,
		Source:        source.Index,
		Exists:        true,
	})
}
