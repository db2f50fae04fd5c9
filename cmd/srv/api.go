package main

import (
	"fmt"
	"net/http"

	"github.com/minsuRob/sportcomm-lottery/internal/middleware"
	"github.com/minsuRob/sportcomm-lottery/pkg/router"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadContext(cctx); err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)

	mux := http.NewServeMux()
	mux.Handle("/", s.router.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: mux,
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// These following APIs need authentication with Access Token.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	authRouter.Before(authVerifier.Middleware())
	{
		router.POST(authRouter, "/enterLotteryRound", s.lotteryDomain.Enter)
		router.GET(authRouter, "/getMyLotteryEntries", s.lotteryDomain.GetMyEntries)
		router.GET(authRouter, "/getMyPointBalance", s.lotteryDomain.GetMyPointBalance)
	}

	// The status API personalizes its response when a token is present but
	// must also serve anonymous visitors.
	optionalAuthRouter := s.router.Branch()
	optionalAuthVerifier := middleware.NewAuthVerifier().WithAccessToken().WithOptional()
	optionalAuthRouter.Before(optionalAuthVerifier.Middleware())
	{
		router.GET(optionalAuthRouter, "/getLotteryStatus", s.lotteryDomain.GetStatus)
	}

	// Public API.
	router.GET(s.router, "/getLotteryWinners", s.lotteryDomain.GetWinners)
	router.GET(s.router, "/getLotteryRoundHistory", s.lotteryDomain.GetRoundHistory)
}
