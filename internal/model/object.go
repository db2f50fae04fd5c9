package model

type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LotteryRound struct {
	ID               string `json:"id"`
	RoundNumber      int64  `json:"round_number"`
	Status           string `json:"status"`
	EntryOpensAt     string `json:"entry_opens_at"`
	EntryClosesAt    string `json:"entry_closes_at"`
	AnnounceEndsAt   string `json:"announce_ends_at"`
	TotalPrizePoints uint64 `json:"total_prize_points"`
	WinnerCount      int    `json:"winner_count"`
}

type LotteryEntry struct {
	RoundID     string `json:"round_id"`
	RoundNumber int64  `json:"round_number"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
}

type LotteryWinner struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Rank        int    `json:"rank"`
	PrizePoints uint64 `json:"prize_points"`
}

type PointTransaction struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	RoundID   string `json:"round_id,omitempty"`
	CreatedAt string `json:"created_at"`
}
