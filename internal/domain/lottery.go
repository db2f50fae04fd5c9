package domain

import (
	"context"
	"errors"
	"time"

	"github.com/minsuRob/sportcomm-lottery/internal/common"
	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/internal/model"
	"github.com/minsuRob/sportcomm-lottery/internal/repository"
	"github.com/minsuRob/sportcomm-lottery/pkg/errorx"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/minsuRob/sportcomm-lottery/pkg/xredis"
	"gorm.io/gorm"
)

// entryCountCacheTTL bounds how stale the advertised entry count may be.
const entryCountCacheTTL = 2 * time.Second

type LotteryDomain interface {
	Enter(ctx context.Context, req *model.EnterLotteryRoundRequest) (*model.EnterLotteryRoundResponse, error)
	GetStatus(ctx context.Context, req *model.GetLotteryStatusRequest) (*model.GetLotteryStatusResponse, error)
	GetWinners(ctx context.Context, req *model.GetLotteryWinnersRequest) (*model.GetLotteryWinnersResponse, error)
	GetRoundHistory(ctx context.Context, req *model.GetLotteryRoundHistoryRequest) (*model.GetLotteryRoundHistoryResponse, error)
	GetMyEntries(ctx context.Context, req *model.GetMyLotteryEntriesRequest) (*model.GetMyLotteryEntriesResponse, error)
	GetMyPointBalance(ctx context.Context, req *model.GetMyPointBalanceRequest) (*model.GetMyPointBalanceResponse, error)
}

type lotteryDomain struct {
	lotteryRoundRepo  repository.LotteryRoundRepository
	lotteryEntryRepo  repository.LotteryEntryRepository
	lotteryWinnerRepo repository.LotteryWinnerRepository
	pointLedgerRepo   repository.PointLedgerRepository
	userRepo          repository.UserRepository
	redisClient       xredis.Client
}

func NewLotteryDomain(
	lotteryRoundRepo repository.LotteryRoundRepository,
	lotteryEntryRepo repository.LotteryEntryRepository,
	lotteryWinnerRepo repository.LotteryWinnerRepository,
	pointLedgerRepo repository.PointLedgerRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) *lotteryDomain {
	return &lotteryDomain{
		lotteryRoundRepo:  lotteryRoundRepo,
		lotteryEntryRepo:  lotteryEntryRepo,
		lotteryWinnerRepo: lotteryWinnerRepo,
		pointLedgerRepo:   pointLedgerRepo,
		userRepo:          userRepo,
		redisClient:       redisClient,
	}
}

func (d *lotteryDomain) Enter(
	ctx context.Context, req *model.EnterLotteryRoundRequest,
) (*model.EnterLotteryRoundResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	round, err := d.lotteryRoundRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No lottery round is open")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current lottery round: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	if round.Status != entity.RoundEntry || !now.Before(round.EntryClosesAt) {
		return nil, errorx.New(errorx.Unavailable,
			"The entry window of round %d has closed", round.RoundNumber)
	}

	// Entering twice is not an error, the second submission just reports the
	// first one back.
	existing, err := d.lotteryEntryRepo.Get(ctx, round.ID, userID)
	if err == nil {
		return &model.EnterLotteryRoundResponse{
			RoundID:        round.ID,
			RoundNumber:    round.RoundNumber,
			AlreadyEntered: true,
			EnteredAt:      existing.CreatedAt.Format(model.DefaultTimeLayout),
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check for an existing entry: %v", err)
		return nil, errorx.Unknown
	}

	entry := &entity.LotteryEntry{RoundID: round.ID, UserID: userID, CreatedAt: now}
	if err := d.lotteryEntryRepo.Create(ctx, entry); err != nil {
		// Lost a race against another submission from the same user. The
		// primary key kept a single row, report that one.
		if repository.IsDuplicateKeyError(err) {
			existing, err := d.lotteryEntryRepo.Get(ctx, round.ID, userID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get the winning duplicate entry: %v", err)
				return nil, errorx.Unknown
			}

			return &model.EnterLotteryRoundResponse{
				RoundID:        round.ID,
				RoundNumber:    round.RoundNumber,
				AlreadyEntered: true,
				EnteredAt:      existing.CreatedAt.Format(model.DefaultTimeLayout),
			}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create lottery entry: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.LotteryEntriesTotal].WithLabelValues().Inc()

	return &model.EnterLotteryRoundResponse{
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		EnteredAt:   entry.CreatedAt.Format(model.DefaultTimeLayout),
	}, nil
}

func (d *lotteryDomain) GetStatus(
	ctx context.Context, req *model.GetLotteryStatusRequest,
) (*model.GetLotteryStatusResponse, error) {
	round, err := d.lotteryRoundRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetLotteryStatusResponse{HasActiveRound: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current lottery round: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	var deadline time.Time
	switch round.Status {
	case entity.RoundEntry:
		deadline = round.EntryClosesAt
	case entity.RoundAnnounce:
		deadline = round.AnnounceEndsAt
	}

	remaining := int64(deadline.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	totalEntries, err := d.countEntries(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count lottery entries: %v", err)
		return nil, errorx.Unknown
	}

	hasEntered := false
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		_, err := d.lotteryEntryRepo.Get(ctx, round.ID, userID)
		if err == nil {
			hasEntered = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check for an existing entry: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.GetLotteryStatusResponse{
		HasActiveRound:   true,
		Round:            model.ConvertLotteryRound(round),
		Phase:            string(round.Status),
		RemainingSeconds: remaining,
		TotalEntries:     totalEntries,
		HasEntered:       hasEntered,
		PrizePerWinner:   round.TotalPrizePoints / uint64(round.WinnerCount),
	}, nil
}

// countEntries serves the entry counter from redis when a client is wired,
// the database count is only refreshed after the cached value expires.
func (d *lotteryDomain) countEntries(ctx context.Context, roundID string) (int64, error) {
	if d.redisClient == nil {
		return d.lotteryEntryRepo.CountByRoundID(ctx, roundID)
	}

	var cached int64
	err := d.redisClient.GetObj(ctx, common.RedisKeyRoundEntries(roundID), &cached)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get cached entry count: %v", err)
	}

	count, err := d.lotteryEntryRepo.CountByRoundID(ctx, roundID)
	if err != nil {
		return 0, err
	}

	err = d.redisClient.SetObj(ctx, common.RedisKeyRoundEntries(roundID), count, entryCountCacheTTL)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache entry count: %v", err)
	}

	return count, nil
}

func (d *lotteryDomain) GetWinners(
	ctx context.Context, req *model.GetLotteryWinnersRequest,
) (*model.GetLotteryWinnersResponse, error) {
	if req.RoundID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty round id")
	}

	round, err := d.lotteryRoundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get lottery round: %v", err)
		return nil, errorx.Unknown
	}

	// Winner rows exist from the moment of settlement, so an entry-phase
	// round simply has none to reveal yet.
	if round.Status == entity.RoundEntry {
		return &model.GetLotteryWinnersResponse{
			Round:   model.ConvertLotteryRound(round),
			Winners: []model.LotteryWinner{},
		}, nil
	}

	winners, err := d.lotteryWinnerRepo.GetByRoundID(ctx, round.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery winners: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := make([]string, 0, len(winners))
	for _, w := range winners {
		userIDs = append(userIDs, w.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner users: %v", err)
		return nil, errorx.Unknown
	}

	usersByID := map[string]*entity.User{}
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	modelWinners := make([]model.LotteryWinner, 0, len(winners))
	for i := range winners {
		modelWinners = append(modelWinners,
			model.ConvertLotteryWinner(&winners[i], usersByID[winners[i].UserID]))
	}

	return &model.GetLotteryWinnersResponse{
		Round:   model.ConvertLotteryRound(round),
		Winners: modelWinners,
	}, nil
}

func (d *lotteryDomain) GetRoundHistory(
	ctx context.Context, req *model.GetLotteryRoundHistoryRequest,
) (*model.GetLotteryRoundHistoryResponse, error) {
	offset, limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	rounds, err := d.lotteryRoundRepo.GetEndedList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended lottery rounds: %v", err)
		return nil, errorx.Unknown
	}

	summaries := make([]model.LotteryRoundSummary, 0, len(rounds))
	for i := range rounds {
		totalEntries, err := d.lotteryEntryRepo.CountByRoundID(ctx, rounds[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count entries of round: %v", err)
			return nil, errorx.Unknown
		}

		winnerCount, err := d.lotteryWinnerRepo.CountByRoundID(ctx, rounds[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count winners of round: %v", err)
			return nil, errorx.Unknown
		}

		summaries = append(summaries, model.LotteryRoundSummary{
			Round:        model.ConvertLotteryRound(&rounds[i]),
			TotalEntries: totalEntries,
			WinnerCount:  winnerCount,
		})
	}

	return &model.GetLotteryRoundHistoryResponse{Rounds: summaries}, nil
}

func (d *lotteryDomain) GetMyEntries(
	ctx context.Context, req *model.GetMyLotteryEntriesRequest,
) (*model.GetMyLotteryEntriesResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	offset, limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	entries, err := d.lotteryEntryRepo.GetListByUserID(ctx, userID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery entries: %v", err)
		return nil, errorx.Unknown
	}

	modelEntries := make([]model.LotteryEntry, 0, len(entries))
	for i := range entries {
		modelEntries = append(modelEntries,
			model.ConvertLotteryEntry(&entries[i], &entries[i].Round))
	}

	return &model.GetMyLotteryEntriesResponse{Entries: modelEntries}, nil
}

func (d *lotteryDomain) GetMyPointBalance(
	ctx context.Context, req *model.GetMyPointBalanceRequest,
) (*model.GetMyPointBalanceResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	offset, limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	points, err := d.pointLedgerRepo.GetBalance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point balance: %v", err)
		return nil, errorx.Unknown
	}

	txs, err := d.pointLedgerRepo.GetTransactionsByUserID(ctx, userID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point transactions: %v", err)
		return nil, errorx.Unknown
	}

	modelTxs := make([]model.PointTransaction, 0, len(txs))
	for i := range txs {
		modelTxs = append(modelTxs, model.ConvertPointTransaction(&txs[i]))
	}

	return &model.GetMyPointBalanceResponse{Points: points, Transactions: modelTxs}, nil
}

func checkPagination(ctx context.Context, offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Not allow negative offset")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return offset, limit, nil
}
