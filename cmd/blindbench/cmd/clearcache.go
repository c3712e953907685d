package cmd

import (
	"github.com/spf13/cobra"
)

func newClearCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete the persisted client-cache snapshot for the dataset",
		Long: `Removes the cached decrypted snapshot so the next client-cache run
performs a cold build. This is the only way a cache entry is invalidated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			if err := a.cache.Delete(ctx, a.cfg.Bench.DatasetID); err != nil {
				return err
			}
			a.log.Info("cache cleared", "dataset", a.cfg.Bench.DatasetID)
			return nil
		},
	}
	return cmd
}
