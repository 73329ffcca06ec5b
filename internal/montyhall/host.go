package montyhall

// Host knows where the car is and opens a goat door the contestant did not pick.
type Host struct{}

// Reveal opens one door that is neither chosen nor the car, picking uniformly
// when two qualify. One draw is consumed even when only one door qualifies.
func (Host) Reveal(doors Doors, src Source) (Doors, int) {
	candidates := doors.Indices(func(d Door) bool {
		return !d.Chosen && d.Prize != Car
	})
	if len(candidates) == 0 {
		violate("reveal", doors, "no unchosen goat door to reveal")
	}

	index := candidates[src.IntN(len(candidates))]
	doors[index].Revealed = true
	return doors, index
}
