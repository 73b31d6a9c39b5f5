package middleware

import (
	"context"

	"github.com/MrSnakeDoc/gompa/internal/config"
	"github.com/spf13/cobra"
)

// LoadConfig reads the configuration named by --config (or the default
// location) into the command context.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	var path string
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
