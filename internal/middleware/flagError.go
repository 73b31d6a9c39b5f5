package middleware

import (
	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/logger"
)

// Fail shows the catalogued message for code and returns errs.ErrLogged.
func Fail(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return errs.ErrLogged
}
