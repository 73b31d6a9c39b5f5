package internal

import (
	"os"
	"strings"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/version"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gompa",
		Short: "Offline cache for virtual monastery tours",
		Long: `Gompa keeps the reference data of the virtual monastery tours site
(monasteries, tours, maps, documents and emergency contacts) available offline.
It can populate and inspect the local snapshot, download single resources and
serve the site's mock search and translate API.`,
		Example: `gompa cache populate
gompa cache show monasteries
gompa serve`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags(cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("gompa {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Increase verbosity (-V, -VV)")
	pf.BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	pf.BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	pf.BoolVar(&logger.FlagJSON, "json-logs", false, "Emit structured JSON logs")
	pf.String("config", "", "Path to config.yml (default $XDG_CONFIG_HOME/gompa/config.yml)")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
