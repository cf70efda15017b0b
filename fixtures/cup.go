package fixtures

import (
	"fmt"
	"math/bits"
	"strconv"
)

// CupTie is one pairing of a cup round. Away is nil when Home advances on a bye.
type CupTie struct {
	Home int
	Away *int
}

func (t CupTie) Bye() bool {
	return t.Away == nil
}

// CupRounds is the number of rounds a single-elimination cup of teamCount teams needs.
func CupRounds(teamCount int) int {
	if teamCount < 2 {
		return 0
	}
	return bits.Len(uint(teamCount - 1))
}

// CupRoundLabel names a cup round by how many rounds are left including it.
func CupRoundLabel(roundsRemaining int) string {
	switch roundsRemaining {
	case 1:
		return "Final"
	case 2:
		return "Semi Final"
	case 3:
		return "Quarter Final"
	default:
		return "Round of " + strconv.Itoa(1<<roundsRemaining)
	}
}

// CupDraw pairs the opening round of a single-elimination cup. The draw is padded to the
// next power of two and the padding slots become byes, so later rounds always pair evenly.
// Seeds are taken in order; seed i meets seed size-1-i.
func CupDraw(teamIDs []int) ([]CupTie, string, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, "", fmt.Errorf("cup draw: not enough teams (found %d, min 2 required)", n)
	}
	rounds := CupRounds(n)
	size := 1 << rounds

	ties := make([]CupTie, 0, size/2)
	for i := 0; i < size/2; i++ {
		tie := CupTie{Home: teamIDs[i]}
		if j := size - 1 - i; j < n {
			away := teamIDs[j]
			tie.Away = &away
		}
		ties = append(ties, tie)
	}
	return ties, CupRoundLabel(rounds), nil
}
