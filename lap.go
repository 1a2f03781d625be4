package sectorfx

// FinishLine is the legacy cross special that counts laps.
const FinishLine = 2001

func init() {
	registerSpecials(&specialVariant{FinishLine, "finish line", nil, crossFinishLine})
}

// crossFinishLine counts a lap when a player crosses the line from its front
// having passed every starpost, and takes one back when the line is crossed
// the wrong way before any starpost. The first forward crossing starts lap 1.
func crossFinishLine(l *Level, act *Activator, a *SpecialArgs) bool {
	if !needPlayer(act, a) {
		return false
	}
	p := act.Actor.Player
	if p.Exiting {
		return false
	}

	if act.Side != 0 {
		if p.Laps > 0 && p.Starposts == 0 {
			p.Laps--
			p.Starposts = l.Config.NumStarposts
			return true
		}
		return false
	}

	if p.Laps > 0 && p.Starposts < l.Config.NumStarposts {
		return false
	}
	p.Laps++
	p.Starposts = 0
	if p.Laps > l.Config.NumLaps {
		p.Exiting = true
		l.Host.ExitLevel(act.Actor)
		return true
	}
	l.Host.StartSound(nil, act.Actor, "lap")
	return true
}
