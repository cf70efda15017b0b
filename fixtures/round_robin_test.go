package fixtures

import "testing"

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func TestRoundRobinSingleLeg(t *testing.T) {
	for _, teamCount := range []int{2, 3, 4, 5, 8} {
		teams := make([]int, teamCount)
		for i := range teams {
			teams[i] = 100 + i
		}

		fixtures, err := RoundRobin(teams, 1)
		if err != nil {
			t.Fatalf("%d teams: RoundRobin: %v", teamCount, err)
		}

		wantMatches := teamCount * (teamCount - 1) / 2
		if len(fixtures) != wantMatches {
			t.Fatalf("%d teams: got %d fixtures, want %d", teamCount, len(fixtures), wantMatches)
		}

		pairs := make(map[[2]int]int)
		perRound := make(map[int]map[int]bool)
		for _, f := range fixtures {
			if f.Home == f.Away {
				t.Fatalf("%d teams: team %d plays itself", teamCount, f.Home)
			}
			if f.Round < 1 || f.Round > Rounds(teamCount, 1) {
				t.Fatalf("%d teams: round %d out of range", teamCount, f.Round)
			}
			pairs[pairKey(f.Home, f.Away)]++
			if perRound[f.Round] == nil {
				perRound[f.Round] = make(map[int]bool)
			}
			for _, id := range []int{f.Home, f.Away} {
				if perRound[f.Round][id] {
					t.Fatalf("%d teams: team %d plays twice in round %d", teamCount, id, f.Round)
				}
				perRound[f.Round][id] = true
			}
		}
		for pair, n := range pairs {
			if n != 1 {
				t.Fatalf("%d teams: pair %v met %d times", teamCount, pair, n)
			}
		}
	}
}

func TestRoundRobinDoubleLegMirrorsHomeAndAway(t *testing.T) {
	teams := []int{1, 2, 3, 4}
	fixtures, err := RoundRobin(teams, 2)
	if err != nil {
		t.Fatalf("RoundRobin: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("got %d fixtures, want 12", len(fixtures))
	}
	homeAway := make(map[[2]int]int)
	for _, f := range fixtures {
		homeAway[[2]int{f.Home, f.Away}]++
	}
	for pair, n := range homeAway {
		if n != 1 {
			t.Fatalf("ordered pairing %v appears %d times", pair, n)
		}
	}
	if got := fixtures[len(fixtures)-1].Round; got != Rounds(4, 2) {
		t.Fatalf("last round = %d, want %d", got, Rounds(4, 2))
	}
}

func TestRoundRobinRejectsBadInput(t *testing.T) {
	if _, err := RoundRobin([]int{1}, 1); err == nil {
		t.Fatal("expected error for a single team")
	}
	if _, err := RoundRobin([]int{1, 2}, 3); err == nil {
		t.Fatal("expected error for three legs")
	}
	if _, err := RoundRobin([]int{1, 2, 1}, 1); err == nil {
		t.Fatal("expected error for duplicate team")
	}
}
