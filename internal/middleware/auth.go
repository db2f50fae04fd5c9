package middleware

import (
	"context"
	"strings"

	"github.com/minsuRob/sportcomm-lottery/internal/model"
	"github.com/minsuRob/sportcomm-lottery/pkg/errorx"
	"github.com/minsuRob/sportcomm-lottery/pkg/router"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

// AuthVerifier resolves the caller identity before the handler runs. With
// access tokens enabled it accepts a Bearer authorization header or the
// access token cookie.
type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

// WithOptional lets unauthenticated requests through with an empty user id
// instead of rejecting them.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !a.useAccessToken {
			return ctx, nil
		}

		token := getAccessToken(ctx)
		if token == "" {
			if a.optional {
				return ctx, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
			if a.optional {
				return ctx, nil
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	authorization := req.Header.Get("Authorization")
	if authorization != "" {
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if !found {
			return ""
		}

		return token
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}
