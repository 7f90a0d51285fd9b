package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local database, including words and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		driver, path, err := resolveDB(cfg)
		if err != nil {
			return fmt.Errorf("resolve database: %w", err)
		}
		if driver != store.DriverSQLite {
			return fmt.Errorf("reset only supports the sqlite driver")
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("This deletes %s and everything in it.\nRun again with --force to confirm.\n", path)
			return nil
		}

		removed := 0
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			err := os.Remove(p)
			switch {
			case err == nil:
				removed++
			case errors.Is(err, os.ErrNotExist):
			default:
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		if removed == 0 {
			fmt.Println("Nothing to reset.")
			return nil
		}
		fmt.Printf("Removed %s. The built-in words are loaded again on next start.\n", path)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Skip the confirmation")
}
