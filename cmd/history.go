package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the tree, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = s.cfg.Storage.KeepSnapshots
		}
		infos, err := s.store.TreeRepo().History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(s.out, "Nothing saved yet")
			return nil
		}

		fmt.Fprintf(s.out, "%8s  %-19s  %8s\n", "Seq", "Saved", "Bytes")
		for _, info := range infos {
			fmt.Fprintf(s.out, "%8d  %-19s  %8d\n", info.Sequence, info.SavedAt.Local().Format(time.DateTime), info.Bytes)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Number of versions to show (default: storage.keep_snapshots)")
}
