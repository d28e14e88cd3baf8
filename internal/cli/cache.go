package cli

import (
	"github.com/spf13/cobra"

	"github.com/protmap/idremap/internal/engine/cache"
)

// newCacheCmd creates the cache command group.
func newCacheCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Response cache management commands"}
	cmd.AddCommand(newCacheInfoCmd(state), newCacheClearCmd(state))
	return cmd
}

// openCacheStore opens the configured response cache store.
func openCacheStore(state *appState) (*cache.FileStore, error) {
	return cache.NewFileStore(state.cfg.Cache.Directory, state.cfg.Cache.TTL.Std())
}

// newCacheInfoCmd creates the cache info command.
func newCacheInfoCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show response cache location and size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheStore(state)
			if err != nil {
				return err
			}

			count, size, err := store.Stats()
			if err != nil {
				return err
			}

			cmd.Printf("Directory: %s\n", store.Directory())
			cmd.Printf("Entries:   %d\n", count)
			cmd.Printf("Size:      %d bytes\n", size)
			cmd.Printf("TTL:       %s\n", state.cfg.Cache.TTL.Std())
			return nil
		},
	}
}

// newCacheClearCmd creates the cache clear command.
func newCacheClearCmd(state *appState) *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached responses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheStore(state)
			if err != nil {
				return err
			}

			if expiredOnly {
				if err := store.CleanupExpired(); err != nil {
					return err
				}
				cmd.Println("Expired cache entries removed")
				return nil
			}

			if err := store.Clear(); err != nil {
				return err
			}
			cmd.Println("Response cache cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "remove only expired entries")

	return cmd
}
