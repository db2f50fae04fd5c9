package domain

import "math/rand"

type SelectedWinner struct {
	UserID      string
	Rank        int
	PrizePoints uint64
}

// SelectWinners picks up to winnerCount winners from the entrant list and
// splits totalPrizePoints between them. The entrant slice must already be in
// a stable order, every caller with the same entrants and seed gets the same
// winners. The prize divides evenly across winners and rank 1 receives the
// remainder.
func SelectWinners(entrants []string, winnerCount int, totalPrizePoints uint64, seed int64) []SelectedWinner {
	if len(entrants) == 0 || winnerCount <= 0 {
		return nil
	}

	shuffled := make([]string, len(entrants))
	copy(shuffled, entrants)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := winnerCount
	if n > len(shuffled) {
		n = len(shuffled)
	}

	share := totalPrizePoints / uint64(n)
	remainder := totalPrizePoints % uint64(n)

	winners := make([]SelectedWinner, 0, n)
	for i := 0; i < n; i++ {
		prize := share
		if i == 0 {
			prize += remainder
		}

		winners = append(winners, SelectedWinner{
			UserID:      shuffled[i],
			Rank:        i + 1,
			PrizePoints: prize,
		})
	}

	return winners
}
