package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}
