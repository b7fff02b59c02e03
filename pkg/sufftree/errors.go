package sufftree

import (
	"errors"

	"github.com/basepair-labs/sufftree/pkg/twokeymap"
)

// InvalidSymbolError is returned by Append when the alphabet rejects an
// input byte: either the alphabet's reserved terminator (written only by
// Terminate, never supplied by a caller) or a byte outside the alphabet.
var InvalidSymbolError = errors.New("sufftree: input symbol rejected by the alphabet")

// AlreadyTerminatedError is returned by Append or Terminate once Terminate
// has already succeeded once.
var AlreadyTerminatedError = errors.New("sufftree: tree is already terminated")

// CapacityExceeded is returned by Append or Terminate when growing the
// tree's child-edge map would exceed its addressable slot count. The tree
// is not rolled back: the symbol being added is already stored and its
// phase is only partly applied, so the tree is no longer a valid suffix
// tree and is not usable for further construction or queries.
var CapacityExceeded = twokeymap.ErrCapacityExceeded

// AssertionFailure indicates an internal invariant was violated during
// construction — a bug in the engine, not a caller error. Unlike the other
// error kinds here, it is raised via panic rather than returned, since
// there is no sane state to hand back to the caller once an invariant
// engine assumption has failed.
type AssertionFailure struct {
	Msg string
}

func (e *AssertionFailure) Error() string {
	return "sufftree: assertion failed: " + e.Msg
}

func assertInvariant(cond bool, msg string) {
	if !cond {
		panic(&AssertionFailure{Msg: msg})
	}
}
