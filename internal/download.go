package internal

import (
	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/middleware"

	"github.com/spf13/cobra"
)

func NewDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <label>",
		Short: "Save a single named resource for offline use",
		Long: `Fetches the resource identified by label and keeps it next to the snapshot.
The five-category snapshot is never modified.

Examples:
    gompa download potala-palace-guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return middleware.Fail(errs.MissingLabel)
			}

			c, err := controller(cmd)
			if err != nil {
				return err
			}
			return c.Download(cmd.Context(), args[0])
		},
	}
}
