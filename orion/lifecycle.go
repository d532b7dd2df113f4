package orion

import (
	"errors"
	"fmt"
)

var ErrIllegalTransition = errors.New("illegal lifecycle transition")

//go:generate go tool stringer -type=Lifecycle

// Lifecycle is the activation state of the application. Graphics
// resources only exist while Active.
type Lifecycle int

const (
	Inactive Lifecycle = iota
	Active
)

// Transition moves to the given state. Only Inactive to Active and
// Active to Inactive are allowed.
func (l *Lifecycle) Transition(to Lifecycle) error {
	legal := (*l == Inactive && to == Active) || (*l == Active && to == Inactive)
	if !legal {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, *l, to)
	}

	*l = to
	return nil
}
