package internal

import (
	"strings"

	"github.com/MrSnakeDoc/gompa/internal/cachectl"
	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/middleware"
	"github.com/MrSnakeDoc/gompa/internal/offline"

	"github.com/spf13/cobra"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline snapshot",
		Long: `Populate and inspect the local snapshot of monasteries, tours, maps,
documents and emergency contacts used when the site is offline.`,
	}

	cmd.AddCommand(
		withReachability(newCachePopulateCmd)(),
		withReachability(newCacheStatusCmd)(),
		withManager(newCacheShowCmd)(),
		withManager(newCacheDownloadsCmd)(),
	)
	return cmd
}

func controller(cmd *cobra.Command) (*cachectl.Controller, error) {
	m, err := middleware.Get[*offline.Manager](cmd, middleware.CtxKeyManager)
	if err != nil {
		return nil, err
	}
	return cachectl.New(m, cmd.OutOrStdout()), nil
}

func newCachePopulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Download every category and replace the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := controller(cmd)
			if err != nil {
				return err
			}
			return c.Populate(cmd.Context())
		},
	}
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show reachability, snapshot age and record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := controller(cmd)
			if err != nil {
				return err
			}
			return c.Status()
		},
	}
}

func newCacheShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <category>",
		Short: "Print the cached records of a category",
		Example: `gompa cache show monasteries
gompa cache show emergencyContacts --json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: offline.CategoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return middleware.Fail(errs.MissingCategory, strings.Join(offline.CategoryNames(), ", "))
			}

			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			c, err := controller(cmd)
			if err != nil {
				return err
			}
			return c.Show(args[0], asJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print records as JSON")
	return cmd
}

func newCacheDownloadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "downloads",
		Short: "List resources saved with 'gompa download'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := controller(cmd)
			if err != nil {
				return err
			}
			return c.Downloads()
		},
	}
}
