package xcontext

import "context"

type (
	errorKey    struct{}
	responseKey struct{}
)

// Error and response are kept in mutable holders so that After middlewares
// and closers observe values set later in the request lifecycle.
type errorHolder struct{ err error }
type responseHolder struct{ resp any }

func WithErrorHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &errorHolder{})
}

func SetError(ctx context.Context, err error) {
	if h, ok := ctx.Value(errorKey{}).(*errorHolder); ok {
		h.err = err
	}
}

func Error(ctx context.Context) error {
	if h, ok := ctx.Value(errorKey{}).(*errorHolder); ok {
		return h.err
	}

	return nil
}

func WithResponseHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &responseHolder{})
}

func SetResponse(ctx context.Context, resp any) {
	if h, ok := ctx.Value(responseKey{}).(*responseHolder); ok {
		h.resp = resp
	}
}

func Response(ctx context.Context) any {
	if h, ok := ctx.Value(responseKey{}).(*responseHolder); ok {
		return h.resp
	}

	return nil
}
