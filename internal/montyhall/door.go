package montyhall

import "fmt"

// DoorCount is the number of doors in every game.
const DoorCount = 3

// Prize is what stands behind a door.
type Prize uint8

const (
	Goat Prize = iota
	Car
)

func (p Prize) String() string {
	switch p {
	case Goat:
		return "goat"
	case Car:
		return "car"
	default:
		return fmt.Sprintf("Prize(%d)", uint8(p))
	}
}

// MarshalText encodes the prize as "goat" or "car".
func (p Prize) MarshalText() ([]byte, error) {
	if p != Goat && p != Car {
		return nil, fmt.Errorf("unknown prize %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Prize) UnmarshalText(text []byte) error {
	switch string(text) {
	case "goat":
		*p = Goat
	case "car":
		*p = Car
	default:
		return fmt.Errorf("unknown prize %q", text)
	}
	return nil
}

// Door is a single door. The prize never changes once the game is set up.
type Door struct {
	Prize    Prize `json:"prize"`
	Chosen   bool  `json:"chosen"`
	Revealed bool  `json:"revealed"`
}

// Doors is the full set of doors. Phases take and return it by value.
type Doors [DoorCount]Door

// NewDoors returns the unshuffled layout: goats first, car last.
func NewDoors() Doors {
	var d Doors
	d[DoorCount-1].Prize = Car
	return d
}

// Shuffle permutes door positions with Fisher-Yates, drawing IntN(i+1)
// for i from the last index down to 1.
func (d Doors) Shuffle(src Source) Doors {
	for i := DoorCount - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
	return d
}

// Indices returns the positions whose door satisfies keep, in order.
func (d Doors) Indices(keep func(Door) bool) []int {
	out := make([]int, 0, DoorCount)
	for i, door := range d {
		if keep(door) {
			out = append(out, i)
		}
	}
	return out
}

// Chosen returns the indices of chosen doors.
func (d Doors) Chosen() []int {
	return d.Indices(func(door Door) bool { return door.Chosen })
}

// Revealed returns the indices of revealed doors.
func (d Doors) Revealed() []int {
	return d.Indices(func(door Door) bool { return door.Revealed })
}

// CarIndex returns the position of the car, or -1 if there is none.
func (d Doors) CarIndex() int {
	for i, door := range d {
		if door.Prize == Car {
			return i
		}
	}
	return -1
}

// choose clears every chosen flag and sets it on index.
func (d Doors) choose(index int) Doors {
	for i := range d {
		d[i].Chosen = i == index
	}
	return d
}

func (d Doors) String() string {
	s := ""
	for i, door := range d {
		if i > 0 {
			s += " "
		}
		mark := "."
		switch {
		case door.Revealed:
			mark = "R"
		case door.Chosen:
			mark = "*"
		}
		s += fmt.Sprintf("[%d:%s%s]", i, door.Prize, mark)
	}
	return s
}
