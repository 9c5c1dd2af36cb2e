package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show unlock progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		t := s.mgr.Tree()
		st := skillgraph.Stats(t)
		fmt.Fprintf(s.out, "%-10s %d\n", "Skills", st.Skills)
		fmt.Fprintf(s.out, "%-10s %d\n", "Links", st.Edges)
		fmt.Fprintf(s.out, "%-10s %d\n", "Unlocked", st.Unlocked)
		fmt.Fprintf(s.out, "%-10s %d\n", "Available", st.Available)
		fmt.Fprintf(s.out, "%-10s %d\n", "Locked", st.Locked)

		if next := skillgraph.AvailableSkills(t); len(next) > 0 {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, theme.Section.Render("Ready to unlock"))
			for _, sk := range next {
				fmt.Fprintf(s.out, "  %s %s %s\n", skillgraph.StateAvailable.Icon(), sk.Data.Name, theme.Dim.Render("("+shortID(sk.ID)+")"))
			}
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the stored tree for structural problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		err = skillgraph.Validate(s.mgr.Tree())
		if err == nil {
			fmt.Fprintln(s.out, theme.SuccessText.Render("✓ Tree is consistent"))
			return nil
		}

		lines := strings.Split(err.Error(), "\n")
		fmt.Fprintln(s.out, theme.ErrorText.Render("✗ "+lines[0]))
		for _, l := range lines[1:] {
			fmt.Fprintln(s.out, "  "+strings.TrimSpace(l))
		}
		return errReported
	},
}
