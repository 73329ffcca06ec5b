package montyhall

import "fmt"

// Outcome is the result of one trial.
type Outcome uint8

const (
	Lose Outcome = iota
	Win
)

func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "lose"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "win":
		*o = Win
	case "lose":
		*o = Lose
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// Phase names a step of a trial.
type Phase string

const (
	PhaseSetup  Phase = "setup"
	PhasePick   Phase = "initial_pick"
	PhaseReveal Phase = "reveal"
	PhaseRevise Phase = "revise"
)

// Snapshot is the door state after a phase.
type Snapshot struct {
	Phase Phase `json:"phase"`
	Doors Doors `json:"doors"`
}

// Record describes a finished trial.
type Record struct {
	Strategy    Strategy   `json:"strategy"`
	Outcome     Outcome    `json:"outcome"`
	CarIndex    int        `json:"car_index"`
	InitialPick int        `json:"initial_pick"`
	Revealed    int        `json:"revealed"`
	FinalPick   int        `json:"final_pick"`
	Phases      []Snapshot `json:"phases"`
}

// Game is a single playthrough. It is not reusable: create one per trial.
type Game struct {
	doors      Doors
	host       Host
	contestant Contestant
	src        Source
	played     bool
}

// NewGame sets up two goats and a car in shuffled order.
func NewGame(strategy Strategy, src Source) (*Game, error) {
	contestant, err := NewContestant(strategy)
	if err != nil {
		return nil, err
	}
	return &Game{
		doors:      NewDoors().Shuffle(src),
		contestant: contestant,
		src:        src,
	}, nil
}

// Doors returns a copy of the current door state.
func (g *Game) Doors() Doors {
	return g.doors
}

// Play runs pick, reveal and revise, then reads the outcome from the one
// chosen door. It panics with *InvariantViolation on any broken invariant
// and if called twice.
func (g *Game) Play() Record {
	if g.played {
		panic(fmt.Sprintf("montyhall: game already played (doors %s)", g.doors))
	}
	g.played = true

	rec := Record{
		Strategy: g.contestant.Strategy(),
		Phases:   make([]Snapshot, 0, 4),
	}

	doors := g.doors
	checkSetup(doors)
	rec.CarIndex = doors.CarIndex()
	rec.Phases = append(rec.Phases, Snapshot{Phase: PhaseSetup, Doors: doors})

	doors, rec.InitialPick = g.contestant.InitialPick(doors, g.src)
	checkPick(PhasePick, doors, rec.InitialPick)
	rec.Phases = append(rec.Phases, Snapshot{Phase: PhasePick, Doors: doors})

	beforeReveal := doors
	doors, rec.Revealed = g.host.Reveal(doors, g.src)
	checkReveal(beforeReveal, doors, rec.Revealed)
	rec.Phases = append(rec.Phases, Snapshot{Phase: PhaseReveal, Doors: doors})

	doors, rec.FinalPick = g.contestant.Revise(doors, g.src)
	checkPick(PhaseRevise, doors, rec.FinalPick)
	if doors[rec.FinalPick].Revealed {
		violate(string(PhaseRevise), doors, "final pick %d is the revealed door", rec.FinalPick)
	}
	rec.Phases = append(rec.Phases, Snapshot{Phase: PhaseRevise, Doors: doors})

	g.doors = doors
	rec.Outcome = outcome(doors)
	return rec
}

// outcome scans for the chosen door; exactly one must exist.
func outcome(doors Doors) Outcome {
	chosen := doors.Chosen()
	if len(chosen) != 1 {
		violate("outcome", doors, "expected one chosen door, found %d", len(chosen))
	}
	if doors[chosen[0]].Prize == Car {
		return Win
	}
	return Lose
}

func checkSetup(doors Doors) {
	cars := doors.Indices(func(d Door) bool { return d.Prize == Car })
	if len(cars) != 1 {
		violate(string(PhaseSetup), doors, "expected one car, found %d", len(cars))
	}
	if len(doors.Chosen()) != 0 || len(doors.Revealed()) != 0 {
		violate(string(PhaseSetup), doors, "doors must start closed and unchosen")
	}
}

func checkPick(phase Phase, doors Doors, index int) {
	chosen := doors.Chosen()
	if len(chosen) != 1 || chosen[0] != index {
		violate(string(phase), doors, "expected door %d as the only chosen door, found %v", index, chosen)
	}
}

func checkReveal(before, after Doors, index int) {
	revealed := after.Revealed()
	if len(revealed) != 1 || revealed[0] != index {
		violate(string(PhaseReveal), after, "expected door %d as the only revealed door, found %v", index, revealed)
	}
	if after[index].Prize == Car {
		violate(string(PhaseReveal), after, "revealed door %d hides the car", index)
	}
	if before[index].Chosen {
		violate(string(PhaseReveal), after, "revealed door %d was chosen", index)
	}
}
