package fixtures

import "fmt"

// Fixture is one pairing of a league schedule. Round numbers start at 1.
type Fixture struct {
	Round int
	Home  int
	Away  int
}

const bye = -1

// RoundRobin schedules a league between teamIDs with the circle method: every team meets
// every other team once per leg, at most once per round. With an odd number of teams one
// team sits out each round. legs is 1 or 2; the second leg mirrors the first with home and
// away swapped.
func RoundRobin(teamIDs []int, legs int) ([]Fixture, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("round robin: not enough teams (found %d, min 2 required)", len(teamIDs))
	}
	if legs != 1 && legs != 2 {
		return nil, fmt.Errorf("round robin: legs must be 1 or 2, got %d", legs)
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("round robin: team %d listed twice", id)
		}
		seen[id] = struct{}{}
	}

	ring := append([]int(nil), teamIDs...)
	if len(ring)%2 == 1 {
		ring = append(ring, bye)
	}
	n := len(ring)
	rounds := n - 1

	first := make([]Fixture, 0, rounds*n/2)
	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Alternate the fixed team so it does not always play at home.
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			first = append(first, Fixture{Round: r + 1, Home: home, Away: away})
		}
		// Keep ring[0] fixed and rotate the rest one step clockwise.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	if legs == 1 {
		return first, nil
	}
	all := make([]Fixture, 0, 2*len(first))
	all = append(all, first...)
	for _, f := range first {
		all = append(all, Fixture{Round: f.Round + rounds, Home: f.Away, Away: f.Home})
	}
	return all, nil
}

// Rounds returns the number of rounds RoundRobin produces for teamCount teams.
func Rounds(teamCount, legs int) int {
	if teamCount < 2 {
		return 0
	}
	if teamCount%2 == 1 {
		teamCount++
	}
	return (teamCount - 1) * legs
}
