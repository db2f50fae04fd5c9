package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/minsuRob/sportcomm-lottery/config"
	"github.com/minsuRob/sportcomm-lottery/pkg/authenticator"
	"github.com/minsuRob/sportcomm-lottery/pkg/errorx"
	"github.com/minsuRob/sportcomm-lottery/pkg/logger"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (e.g.
// attaching the authenticated user id) or reject the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, regardless of outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg         config.Configs
	logger      logger.Logger
	db          *gorm.DB
	tokenEngine authenticator.TokenEngine

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		logger:      logger,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain, seeded with a copy of the current one.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:         r.mux,
		cfg:         r.cfg,
		logger:      r.logger,
		db:          r.db,
		tokenEngine: r.tokenEngine,
	}

	branch.befores = append(branch.befores, r.befores...)
	branch.afters = append(branch.afters, r.afters...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) newContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithErrorHolder(ctx)
	ctx = xcontext.WithResponseHolder(ctx)
	return ctx
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := router.newContext(r, w)
		defer func() {
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		if r.Method != method {
			writeError(ctx, errorx.New(errorx.NotSupportedMethod, "Not supported method %s", r.Method))
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(r.URL.Query(), &req)
		case http.MethodPost:
			if err = json.NewDecoder(r.Body).Decode(&req); errors.Is(err, io.EOF) {
				err = nil
			}
		}
		if err != nil {
			writeError(ctx, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			return
		}

		for _, middleware := range router.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				writeError(ctx, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		xcontext.SetResponse(ctx, resp)
		for _, middleware := range router.afters {
			if newCtx, err := middleware(ctx); err != nil {
				writeError(ctx, err)
				return
			} else if newCtx != nil {
				ctx = newCtx
			}
		}

		if err := writeJSON(w, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

func writeError(ctx context.Context, err error) {
	xcontext.SetError(ctx, err)
	if werr := writeJSON(xcontext.HTTPWriter(ctx), newErrorResponse(err)); werr != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
	}
}
