package model

type EnterLotteryRoundRequest struct{}

type EnterLotteryRoundResponse struct {
	RoundID        string `json:"round_id"`
	RoundNumber    int64  `json:"round_number"`
	AlreadyEntered bool   `json:"already_entered"`
	EnteredAt      string `json:"entered_at"`
}

type GetLotteryStatusRequest struct{}

type GetLotteryStatusResponse struct {
	HasActiveRound   bool         `json:"has_active_round"`
	Round            LotteryRound `json:"round,omitempty"`
	Phase            string       `json:"phase,omitempty"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	TotalEntries     int64        `json:"total_entries"`
	HasEntered       bool         `json:"has_entered"`
	PrizePerWinner   uint64       `json:"prize_per_winner"`
}

type GetLotteryWinnersRequest struct {
	RoundID string `json:"round_id"`
}

type GetLotteryWinnersResponse struct {
	Round   LotteryRound    `json:"round"`
	Winners []LotteryWinner `json:"winners"`
}

type GetLotteryRoundHistoryRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type LotteryRoundSummary struct {
	Round        LotteryRound `json:"round"`
	TotalEntries int64        `json:"total_entries"`
	WinnerCount  int64        `json:"winner_count"`
}

type GetLotteryRoundHistoryResponse struct {
	Rounds []LotteryRoundSummary `json:"rounds"`
}

type GetMyLotteryEntriesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyLotteryEntriesResponse struct {
	Entries []LotteryEntry `json:"entries"`
}

type GetMyPointBalanceRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyPointBalanceResponse struct {
	Points       int64              `json:"points"`
	Transactions []PointTransaction `json:"transactions"`
}
