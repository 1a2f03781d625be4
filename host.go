package sectorfx

// Host is implemented by the game that embeds the engine. Everything the
// engine triggers but does not own goes through here: sound, music, damage,
// level exit, unlockables and polyobject motion.
type Host interface {
	StartSound(sector *Sector, actor *Actor, sound string)
	ChangeMusic(name string, looping bool)
	DamageActor(actor *Actor, source *Sector, kind DamageKind)
	ExitLevel(actor *Actor)
	Unlocked(id int) bool
	MovePolyobject(po *Polyobject, code int, args *SpecialArgs) bool
}

// ScriptHost is the script virtual machine as seen by the dispatcher.
type ScriptHost interface {
	Execute(name string, args []int, stringArgs []string, act *Activator) bool
	Suspend(name string) bool
	Terminate(name string) bool
	Tick()
}

// NopHost ignores every request. It is the default for levels built without a
// host.
type NopHost struct{}

func (NopHost) StartSound(*Sector, *Actor, string)                  {}
func (NopHost) ChangeMusic(string, bool)                            {}
func (NopHost) DamageActor(*Actor, *Sector, DamageKind)             {}
func (NopHost) ExitLevel(*Actor)                                    {}
func (NopHost) Unlocked(int) bool                                   { return false }
func (NopHost) MovePolyobject(*Polyobject, int, *SpecialArgs) bool { return false }
