package main

import (
	"errors"
	"os"

	cmd "github.com/MrSnakeDoc/gompa/internal"
	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errs.ErrLogged) {
			logger.LogError(err.Error())
		}
		os.Exit(1)
	}
}
