package sectorfx

import (
	"math"
	"strconv"
	"strings"
)

// Binary maps encode special parameters in line flags, tags, side offsets
// and texture names. The converters below move them into argument vectors
// so every special reads its parameters the same way.

// convertBinarySector fills the policy fields of s from the binary special.
// Section 2 of the special selects the trigger class and is cleared.
func convertBinarySector(s *Sector, b binSector) {
	s.Special = int(uint16(b.Type))
	s.Tags = nil
	if b.TagNum != 0 {
		s.Tags = TagList{int(b.TagNum)}
	}
	s.Flags = SectorSpecialFloor
	if s.Gravity == 0 {
		s.Gravity = 1
	}

	trigger := true
	switch sectorSection(s.Special, 2) {
	case 1:
		s.Triggerer = TriggerByMobj
	case 2:
		s.Triggerer = TriggerByAllPlayers
	case 3:
		s.Triggerer = TriggerByAllPlayers
		s.Flags |= SectorTriggerPlane
	case 4:
		s.Triggerer = TriggerByPlayer
	case 5:
		s.Triggerer = TriggerByPlayer
		s.Flags |= SectorTriggerPlane
	default:
		trigger = false
	}
	if trigger {
		s.TriggerTag = s.Tags.First()
		s.Special &^= 0xF0
	}
}

// binaryTriggers maps each binary trigger code to its argument-form code and
// firing policy.
var binaryTriggers = map[int]struct {
	code   int
	policy TriggerPolicy
}{
	300: {TriggerBasic, TriggerContinuous},
	301: {TriggerBasic, TriggerEachTime},
	302: {TriggerBasic, TriggerOnce},
	303: {TriggerRingCount, TriggerContinuous},
	304: {TriggerRingCount, TriggerOnce},
	308: {TriggerGametype, TriggerOnce},
	314: {TriggerPushables, TriggerContinuous},
	315: {TriggerPushables, TriggerOnce},
	319: {TriggerUnlockable, TriggerContinuous},
	320: {TriggerUnlockable, TriggerOnce},
	321: {TriggerCallCount, TriggerContinuous},
	322: {TriggerCallCount, TriggerEachTime},
	331: {TriggerSkin, TriggerContinuous},
	332: {TriggerSkin, TriggerEachTime},
	333: {TriggerSkin, TriggerOnce},
	334: {TriggerDye, TriggerContinuous},
	335: {TriggerDye, TriggerEachTime},
	336: {TriggerDye, TriggerOnce},
	343: {TriggerGravity, TriggerContinuous},
	344: {TriggerGravity, TriggerEachTime},
	345: {TriggerGravity, TriggerOnce},
	399: {TriggerLevelLoad, TriggerOnce},
}

// convertBinaryLine moves the parameters of a binary line special into its
// argument vector. Sides must already be wired.
func convertBinaryLine(li *Line, b binLine) {
	li.Special = int(uint16(b.Type))
	li.Tags = nil
	if b.SectorTag != 0 {
		li.Tags = TagList{int(b.SectorTag)}
	}
	tag := li.Tag()
	length := int(math.Hypot(li.DX, li.DY))
	var xoff, yoff int
	if li.SideR != nil {
		xoff, yoff = int(li.SideR.XOffset), int(li.SideR.YOffset)
	}
	flag := func(f LineFlags) int { return btoi(li.Flags&f != 0) }

	switch code := li.Special; {
	case code == polyobjectFirstLine:
		li.Args[0] = tag
		li.Args[1] = xoff
		li.Args[2] = 255

	case code >= 50 && code <= 64:
		li.Args[0] = tag
		if code == 64 {
			li.Args[1] = int(abs(li.DX))
			li.Args[2] = int(abs(li.DY))
			if li.FrontSector != nil {
				li.Args[3] = int(li.FrontSector.FloorHeight)
			}
		}

	case isFOFSpecial(code):
		convertBinaryFOF(li, tag, length)

	case isTriggerSpecial(code):
		convertBinaryTrigger(li, xoff, length)

	case isExecutorSpecial(code):
		if li.Flags&LineDontPegTop != 0 {
			li.ExecutorDelay = max(xoff, 0)
		}
		convertBinaryExecutor(li, tag, length, xoff, yoff, flag)

	case code == FinishLine:
		li.Activation = PlayerCross | RepeatSpecial

	case code >= 500 && code <= 535:
		li.Args[0] = tag
		switch {
		case li.Flags&LineNoClimb != 0:
			li.Args[2] = scrollDisplacement
		case li.Flags&LineBlockMonsters != 0:
			li.Args[2] = scrollAccelerative
		}

	case code == 540:
		li.Args[0] = tag
		li.Args[1] = xoff

	case code >= 541 && code <= 547:
		li.Args[0] = tag
		li.Args[3] = flag(LineNoClimb)

	case code >= 600 && code <= 605:
		li.Args[0] = tag
		switch code {
		case 602, 603:
			li.Args[1] = max(length/8, 1)
			if li.FrontSector != nil {
				li.Args[2] = li.FrontSector.LightLevel
			}
		case 604, 605:
			li.Args[1] = xoff
			li.Args[2] = yoff
		}
	}
}

func convertBinaryFOF(li *Line, tag, length int) {
	code := li.Special
	li.Args[0] = tag
	li.Args[1] = 255
	if li.SideR != nil {
		if alpha, ok := parseAlphaTexture(li.SideR.UpperTextureName); ok {
			li.Args[1] = alpha
		}
	}
	switch {
	case code == 150:
		li.Args[2] = airBobDistance
		li.Args[3] = 2 * btoi(li.Flags&LineNoClimb != 0)
	case code == 151, code == 152:
		li.Args[2] = length
		li.Args[3] = 2 * btoi(li.Flags&LineNoClimb != 0)
		if code == 152 {
			li.Args[3] |= 1
		}
	case code >= 190 && code <= 195:
		li.Args[2] = length / 4
		var flags RaiserFlags
		if li.Flags&LineBlockMonsters != 0 {
			flags |= RaiseReverse
		}
		if li.Flags&LineNoClimb != 0 {
			flags |= RaiseSpindash
		}
		if li.Flags&LineEffect1 != 0 {
			flags |= RaiseDynamic
		}
		li.Args[3] = int(flags)
	case code == 254:
		li.Args[3] = btoi(li.Flags&LineNoClimb != 0)
	case code == customFOF:
		if li.SideR != nil {
			v, err := strconv.ParseUint(li.SideR.UpperTextureName, 16, 32)
			if err != nil {
				warnf("custom FOF line %d: flags %q: %v", li.Index, li.SideR.UpperTextureName, err)
			}
			li.Args[2] = int(v)
			li.Args[1] = 255
		}
	}
}

// parseAlphaTexture reads the "#NNN" alpha a translucent FOF names as its
// upper texture.
func parseAlphaTexture(name string) (int, bool) {
	if !strings.HasPrefix(name, "#") || len(name) < 4 {
		return 0, false
	}
	v, err := strconv.Atoi(name[1:4])
	if err != nil {
		return 0, false
	}
	return clamp(v, 0, 255), true
}

func convertBinaryTrigger(li *Line, xoff, length int) {
	conv, ok := binaryTriggers[li.Special]
	if !ok {
		warnf("line %d: trigger type %d is not supported, cleared", li.Index, li.Special)
		li.Special = 0
		return
	}
	li.Special = conv.code
	li.Args[0] = int(conv.policy)
	if li.Flags&LineEffect5 != 0 {
		li.Args[9] = 1 // run executors in line order
	}

	compareMode := CompareEqual
	switch {
	case li.Flags&LineNoClimb != 0:
		compareMode = CompareLessOrEqual
	case li.Flags&LineBlockMonsters != 0:
		compareMode = CompareGreaterOrEqual
	}

	switch conv.code {
	case TriggerRingCount:
		li.Args[1] = length
		li.Args[2] = compareMode
		li.Args[3] = btoi(li.Flags&LineEffect4 != 0)
	case TriggerGametype:
		li.Args[1] = xoff
	case TriggerPushables:
		li.Args[1] = xoff
		li.Args[2] = compareMode
	case TriggerUnlockable:
		li.Args[1] = xoff
		li.Args[2] = btoi(li.Flags&LineNoClimb != 0)
	case TriggerCallCount:
		li.Args[1] = xoff
		li.Args[2] = btoi(li.Flags&LineBouncy != 0)
	case TriggerSkin:
		li.Args[1] = btoi(li.Flags&LineNoClimb != 0)
		if li.SideR != nil {
			li.StringArgs[0] = strings.ToLower(li.SideR.MiddleTextureName)
		}
	case TriggerDye:
		li.Args[1] = xoff
		li.Args[2] = btoi(li.Flags&LineNoClimb != 0)
	case TriggerGravity:
		li.Args[1] = btoi(li.Flags&LineNoClimb == 0)
	}
}

// convertBinaryExecutor fills the arguments of 400-499. Most take the line
// tag in args[0]; amounts come from the front side offsets or the line
// length, options from the flags.
func convertBinaryExecutor(li *Line, tag, length, xoff, yoff int, flag func(LineFlags) int) {
	code := li.Special
	li.Args[0] = tag
	var front string
	if li.SideR != nil {
		front = li.SideR.MiddleTextureName
	}
	args := &li.Args

	switch code {
	case 403, 404:
		args[1] = max(length/8, 1)
	case 405:
		args[1] = flag(LineNoClimb)
		args[2] = xoff
		args[3] = yoff
		args[4] = btoi(yoff == 0)
	case 400, 401:
		if li.Flags&LineNoClimb != 0 {
			args[1] = copyHeight
		}
	case 408:
		if li.Flags&LineNoClimb != 0 {
			args[1] = 1
		}
	case 409:
		args[1] = xoff
	case 410:
		args[0] = xoff
	case 412:
		args[1] = flag(LineBlockMonsters)
	case 413:
		li.StringArgs[0] = front
		args[0] = btoi(li.Flags&LineNoClimb == 0)
	case 414:
		li.StringArgs[0] = front
		args[0] = soundFromActor
		if li.Flags&LineNoClimb != 0 {
			args[0] = soundFromSector
		}
	case 415:
		li.StringArgs[0] = strings.ToLower(front)
		args[0] = xoff
	case 416, 417:
		args[1] = max(length/8, 1)
		if li.FrontSector != nil {
			args[2] = li.FrontSector.LightLevel
		}
		args[3] = xoff
	case 418:
		args[1] = xoff
		args[2] = yoff
		if li.FrontSector != nil {
			args[3] = li.FrontSector.LightLevel
		}
		args[4] = flag(LineNoClimb)
	case 420:
		if li.FrontSector != nil {
			args[1] = li.FrontSector.LightLevel
		}
		args[2] = max(length/8, 1)
		args[3] = flag(LineEffect4)
	case 423, 424, 425:
		args[0] = xoff
	case 426:
		args[0] = flag(LineNoClimb)
	case 427, 437, 460:
		args[0] = length
	case 428:
		args[1] = max(length/4, 1)
		args[2] = xoff
		args[3] = flag(LineNoClimb)
	case 429, 430:
		args[1] = max(length/8, 1)
	case 433:
		args[0] = gravityFlipped
		if li.Flags&LineNoClimb != 0 {
			args[0] = gravityNormal
		}
	case 434:
		args[0] = xoff
		args[1] = length
	case 435:
		args[1] = length / 8
		args[2] = flag(LineNoClimb)
	case 436, 445, 446, 452, 453, 454:
		args[1] = xoff
		switch code {
		case 445:
			args[2] = btoi(li.Flags&LineNoClimb == 0)
		case 446:
			args[2] = flag(LineNoClimb)
			if li.Flags&LineBlockMonsters != 0 {
				args[2] |= 2
			}
		case 452:
			args[2] = clamp(length, 0, 255)
			args[3] = flag(LineEffect3)
		case 453:
			args[2] = clamp(length, 0, 255)
			args[3] = yoff
			var opts FadeFlags
			if li.Flags&LineBlockMonsters != 0 {
				opts |= FadeOverride
			}
			if li.Flags&LineEffect4 != 0 {
				opts |= FadeTicBased
			}
			if li.Flags&LineNoClimb != 0 {
				opts |= FadeNoExists
			}
			args[4] = int(opts)
		case 454:
			args[2] = flag(LineNoClimb)
		}
	case 438:
		args[0] = length
	case 444:
		args[0] = length
		args[1] = xoff
		args[2] = yoff
		args[3] = flag(LineNoClimb)
	case 447:
		if li.FrontSector != nil {
			li.StringArgs[0] = li.FrontSector.Colormap
		}
	case 451:
		args[0] = xoff
		args[1] = yoff
	case 463:
		args[0] = xoff
	case 465:
		args[1] = xoff
		args[2] = flag(LineNoClimb)
	case 467:
		args[1] = xoff
		args[2] = flag(LineNoClimb)
	case 468:
		args[1] = xoff
		args[2] = yoff
	case 489, 490:
		args[1] = flag(LineNoClimb)
	case 491:
		args[1] = xoff
		args[2] = flag(LineNoClimb)
	case 492:
		args[1] = xoff
		args[2] = yoff
		args[3] = int(FadeTicBased) * flag(LineEffect4)
	}
}
