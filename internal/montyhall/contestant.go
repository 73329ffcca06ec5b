package montyhall

// Contestant picks a door at random and then revises it with a fixed strategy.
type Contestant struct {
	strategy Strategy
}

// NewContestant binds a contestant to strategy.
func NewContestant(strategy Strategy) (Contestant, error) {
	if err := strategy.Validate(); err != nil {
		return Contestant{}, err
	}
	return Contestant{strategy: strategy}, nil
}

// Strategy returns the contestant's strategy.
func (c Contestant) Strategy() Strategy {
	return c.strategy
}

// InitialPick chooses one of all doors uniformly.
func (c Contestant) InitialPick(doors Doors, src Source) (Doors, int) {
	index := src.IntN(DoorCount)
	return doors.choose(index), index
}

// Revise applies the strategy after the host has revealed a door and returns
// the index of the door finally held.
//
// Random draws among every unrevealed door, so it may keep the current pick.
// Switch draws from the single unrevealed, unchosen door.
func (c Contestant) Revise(doors Doors, src Source) (Doors, int) {
	switch c.strategy {
	case Stay:
		chosen := doors.Chosen()
		if len(chosen) != 1 {
			violate("revise", doors, "stay expects one chosen door, found %d", len(chosen))
		}
		return doors, chosen[0]

	case Random:
		candidates := doors.Indices(func(d Door) bool { return !d.Revealed })
		index := candidates[src.IntN(len(candidates))]
		return doors.choose(index), index

	case Switch:
		candidates := doors.Indices(func(d Door) bool { return !d.Revealed && !d.Chosen })
		if len(candidates) != 1 {
			violate("revise", doors, "switch expects one other closed door, found %d", len(candidates))
		}
		index := candidates[src.IntN(len(candidates))]
		return doors.choose(index), index

	default:
		violate("revise", doors, "unvalidated strategy %s", c.strategy)
		return doors, -1
	}
}
