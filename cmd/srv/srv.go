package main

import (
	"context"
	"net/http"

	"github.com/minsuRob/sportcomm-lottery/config"
	"github.com/minsuRob/sportcomm-lottery/internal/domain"
	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/internal/repository"
	"github.com/minsuRob/sportcomm-lottery/pkg/logger"
	"github.com/minsuRob/sportcomm-lottery/pkg/router"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/minsuRob/sportcomm-lottery/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo          repository.UserRepository
	lotteryRoundRepo  repository.LotteryRoundRepository
	lotteryEntryRepo  repository.LotteryEntryRepository
	lotteryWinnerRepo repository.LotteryWinnerRepository
	pointLedgerRepo   repository.PointLedgerRepository

	lotteryDomain          domain.LotteryDomain
	lotterySchedulerDomain domain.LotterySchedulerDomain

	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

// loadContext builds the root context every command starts from.
func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger())
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(
		mysql.Open(cfg.Database.ConnectionString()),
		&gorm.Config{TranslateError: true},
	)
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.lotteryRoundRepo = repository.NewLotteryRoundRepository()
	s.lotteryEntryRepo = repository.NewLotteryEntryRepository()
	s.lotteryWinnerRepo = repository.NewLotteryWinnerRepository()
	s.pointLedgerRepo = repository.NewPointLedgerRepository()
}

func (s *srv) loadDomains() {
	s.lotteryDomain = domain.NewLotteryDomain(
		s.lotteryRoundRepo,
		s.lotteryEntryRepo,
		s.lotteryWinnerRepo,
		s.pointLedgerRepo,
		s.userRepo,
		s.redisClient,
	)

	s.lotterySchedulerDomain = domain.NewLotterySchedulerDomain(
		s.lotteryRoundRepo,
		s.lotteryEntryRepo,
		s.lotteryWinnerRepo,
		s.pointLedgerRepo,
		s.redisClient,
	)
}
