package sectorfx

import "errors"

var (
	ErrBadMagic        = errors.New("bad magic")
	ErrLumpNotFound    = errors.New("lump not found")
	ErrUnknownSpecial  = errors.New("unknown special")
	ErrSpecialDisabled = errors.New("special disabled")
	ErrNoSuchTag       = errors.New("no such tag")
	ErrMissingString   = errors.New("missing string argument")
	ErrSectorNotClosed = errors.New("sector not closed")
)
