package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/skilltree/internal/app"
	"github.com/abhisek/skilltree/internal/config"
	"github.com/abhisek/skilltree/internal/store"
)

// Persistent flag names.
const (
	flagDB      = "db"
	flagConfig  = "config"
	flagVerbose = "verbose"
)

// errReported marks a failure that was already printed as a notification.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "skilltree",
	Short: "Build and unlock skill trees",
	Long: `Skilltree keeps a tree of skills linked by prerequisites. A skill can be
unlocked once everything it requires is unlocked.

Run without a subcommand to open the interactive tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		return app.Run(app.Options{
			Context: cmd.Context(),
			Manager: s.mgr,
			Notes:   s.notes,
		})
	},
}

// Execute runs the root command and prints any error not already shown.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	viper.SetEnvPrefix("SKILLTREE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String(flagDB, "", "Path to SQLite database file (overrides SKILLTREE_DB env var)")
	rootCmd.PersistentFlags().String(flagConfig, "", "Config file path (default: .skilltree/config.yaml)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Enable debug logging")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SKILLTREE_DB env var, then storage.db_path from config, then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString(flagDB)
	if p == "" {
		p = os.Getenv("SKILLTREE_DB")
	}
	if p == "" {
		p = cfg.Storage.DBPath
	}
	if p == "" {
		return store.DefaultDBPath()
	}
	return p, store.EnsureDir(p)
}
