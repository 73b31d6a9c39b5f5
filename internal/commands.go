package internal

import (
	"github.com/MrSnakeDoc/gompa/internal/middleware"
	"github.com/spf13/cobra"
)

var (
	withManager      = middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildManager)
	withReachability = middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.CheckReachability, middleware.BuildManager)
)

var defaultCommands = []middleware.CommandFactory{
	NewCacheCmd,
	withReachability(NewDownloadCmd),
	withManager(NewServeCmd),
	NewVersionCmd,
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
