package utils

import (
	"bytes"
	"io"

	"github.com/MrSnakeDoc/gompa/internal/logger"
)

func Try(f func() error) {
	if err := f(); err != nil {
		logger.LogError("deferred cleanup failed: %v", err)
	}
}

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }
