package repair

import "errors"

// Sentinel errors for repair operations, checked with errors.Is per the
// rest of this module's error-handling convention.
var (
	// ErrEmptyNet names the condition of a net with no live shapes, where
	// there is nothing to merge, split or prune. RepairNet itself returns
	// nil for such a net, not this error.
	ErrEmptyNet = errors.New("repair: net has no shapes")

	// ErrNoSteinerPath indicates the Step E search could not reconnect a
	// pin that Step C determined was disconnected from the net's main
	// component; spec §7 treats this as a hard failure, not a marker.
	ErrNoSteinerPath = errors.New("repair: no path found to reconnect pin")
)

// FatalError is the one repair condition the spec elevates above a
// sentinel: a net that cannot be repaired at all, carrying enough context
// (kind, net, explanation) for a caller to log and abort that net without
// guessing from a string (spec §7).
type FatalError struct {
	Kind string
	Net  string
	What string
}

func (e *FatalError) Error() string {
	return "repair: fatal [" + e.Kind + "] on net " + e.Net + ": " + e.What
}

// Is lets errors.Is(err, repair.ErrNoSteinerPath) match a *FatalError whose
// Kind corresponds, without requiring callers to type-assert first.
func (e *FatalError) Is(target error) bool {
	if target == ErrNoSteinerPath {
		return e.Kind == "no-steiner-path"
	}
	return false
}
