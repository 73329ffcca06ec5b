package montyhall

import (
	"errors"
	"fmt"
)

// ErrInvalidStrategy is returned for any strategy outside the closed set.
var ErrInvalidStrategy = errors.New("invalid strategy")

// InvariantViolation reports a logic bug inside a trial. It is only ever
// raised with panic; a trial that hits one has no meaningful outcome.
type InvariantViolation struct {
	Phase  string
	Detail string
	Doors  Doors
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("montyhall: invariant violated after %s: %s (doors %s)", e.Phase, e.Detail, e.Doors)
}

func violate(phase string, doors Doors, format string, args ...any) {
	panic(&InvariantViolation{
		Phase:  phase,
		Detail: fmt.Sprintf(format, args...),
		Doors:  doors,
	})
}
