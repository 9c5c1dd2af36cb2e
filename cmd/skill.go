package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/tree"
	"github.com/abhisek/skilltree/internal/ui/theme"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a locked skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		name, _ := cmd.Flags().GetString("name")
		desc, _ := cmd.Flags().GetString("description")
		level, _ := cmd.Flags().GetString("level")

		sk, err := s.mgr.AddSkill(cmd.Context(), tree.SkillInput{Name: name, Description: desc, Level: level})
		var fe tree.FieldErrors
		if errors.As(err, &fe) {
			for _, field := range []string{tree.FieldName, tree.FieldDescription, tree.FieldLevel} {
				if msg, ok := fe[field]; ok {
					fmt.Fprintln(s.out, theme.ErrorText.Render("✗ "+msg))
				}
			}
			return errReported
		}
		if err == nil || tree.IsSaveError(err) {
			fmt.Fprintf(s.out, "Added %s %s\n", sk.Data.Name, theme.Dim.Render("("+sk.ID+")"))
		}
		return s.finish(err)
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <prerequisite> <skill>",
	Short: "Make one skill a prerequisite of another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		t := s.mgr.Tree()
		src, err := resolveSkill(t, args[0])
		if err != nil {
			return err
		}
		dst, err := resolveSkill(t, args[1])
		if err != nil {
			return err
		}

		_, err = s.mgr.Connect(cmd.Context(), skillgraph.Connection{Source: src.ID, Target: dst.ID})
		if err == nil || tree.IsSaveError(err) {
			fmt.Fprintf(s.out, "%s now requires %s\n", dst.Data.Name, src.Data.Name)
		}
		return s.finish(err)
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <prerequisite> <skill>",
	Short: "Remove a prerequisite link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		t := s.mgr.Tree()
		src, err := resolveSkill(t, args[0])
		if err != nil {
			return err
		}
		dst, err := resolveSkill(t, args[1])
		if err != nil {
			return err
		}

		before := len(t.Edges)
		if err := s.mgr.RemoveEdges(cmd.Context(), skillgraph.EdgeID(src.ID, dst.ID)); err != nil {
			return s.finish(err)
		}
		if len(s.mgr.Tree().Edges) == before {
			return fmt.Errorf("%s does not require %s", dst.Data.Name, src.Data.Name)
		}
		fmt.Fprintf(s.out, "%s no longer requires %s\n", dst.Data.Name, src.Data.Name)
		return s.finish(nil)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <skill> <x> <y>",
	Short: "Set a skill's canvas position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[2], err)
		}

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		sk, err := resolveSkill(s.mgr.Tree(), args[0])
		if err != nil {
			return err
		}
		err = s.mgr.MoveNodes(cmd.Context(), skillgraph.NodeMove{ID: sk.ID, Position: skillgraph.Position{X: x, Y: y}})
		return s.finish(err)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <skill>",
	Short: "Unlock a skill whose prerequisites are all unlocked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		t := s.mgr.Tree()
		sk, err := resolveSkill(t, args[0])
		if err != nil {
			return err
		}

		_, err = s.mgr.Unlock(cmd.Context(), sk.ID)
		switch {
		case errors.Is(err, tree.ErrAlreadyUnlocked):
			fmt.Fprintf(s.out, "%s is already unlocked\n", sk.Data.Name)
			return nil
		case errors.Is(err, tree.ErrNotUnlockable):
			var missing []string
			for _, p := range skillgraph.Prerequisites(t, sk.ID) {
				if !p.Data.Unlocked {
					missing = append(missing, p.Data.Name)
				}
			}
			return fmt.Errorf("%s still needs %s", sk.Data.Name, strings.Join(missing, ", "))
		}
		return s.finish(err)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills, prerequisites first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		state, _ := cmd.Flags().GetString("state")
		t := s.mgr.Tree()

		var rows []skillgraph.Skill
		for _, sk := range skillgraph.TopologicalOrder(t) {
			if state == "" || strings.EqualFold(skillgraph.StateOf(t, sk.ID).Label(), state) {
				rows = append(rows, sk)
			}
		}
		printSkillTable(s, t, rows, skillgraph.Highlight{})
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show skills matching a name, with everything they require",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		h := s.mgr.Search(strings.Join(args, " "))
		if !h.Active() {
			fmt.Fprintln(s.out, "No matches")
			return nil
		}

		t := s.mgr.Tree()
		var rows []skillgraph.Skill
		for _, sk := range skillgraph.TopologicalOrder(t) {
			if h.Nodes[sk.ID] {
				rows = append(rows, sk)
			}
		}
		printSkillTable(s, t, rows, h)
		fmt.Fprintf(s.out, "%d links highlighted\n", len(h.Edges))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show one skill with its prerequisites and dependents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		t := s.mgr.Tree()
		sk, err := resolveSkill(t, args[0])
		if err != nil {
			return err
		}
		state := skillgraph.StateOf(t, sk.ID)

		fmt.Fprintln(s.out, theme.Title.Render(fmt.Sprintf("%s %s", state.Icon(), sk.Data.Name)))
		fmt.Fprintln(s.out, sk.Data.Description)
		fmt.Fprintln(s.out)
		fmt.Fprintf(s.out, "%-10s %s\n", "ID", sk.ID)
		fmt.Fprintf(s.out, "%-10s %s\n", "State", state.Label())
		if sk.Data.Level != nil {
			fmt.Fprintf(s.out, "%-10s %d\n", "Level", *sk.Data.Level)
		}
		fmt.Fprintf(s.out, "%-10s %.0f, %.0f\n", "Position", sk.Position.X, sk.Position.Y)

		printNeighbours(s, t, "Requires", skillgraph.Prerequisites(t, sk.ID))
		printNeighbours(s, t, "Unlocks", skillgraph.Dependents(t, sk.ID))
		return nil
	},
}

func printNeighbours(s *session, t skillgraph.Tree, title string, skills []skillgraph.Skill) {
	if len(skills) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, theme.Section.Render(title))
	for _, n := range skills {
		fmt.Fprintf(s.out, "  %s %s %s\n", skillgraph.StateOf(t, n.ID).Icon(), n.Data.Name, theme.Dim.Render("("+shortID(n.ID)+")"))
	}
}

func printSkillTable(s *session, t skillgraph.Tree, rows []skillgraph.Skill, h skillgraph.Highlight) {
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "No skills")
		return
	}

	fmt.Fprintf(s.out, "%-8s  %-3s %-30s  %5s  %5s  %s\n", "ID", "", "Name", "Level", "Needs", "State")
	fmt.Fprintln(s.out, strings.Repeat("─", 72))

	for _, sk := range rows {
		state := skillgraph.StateOf(t, sk.ID)
		name := sk.Data.Name
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:27]) + "..."
		}
		level := "-"
		if sk.Data.Level != nil {
			level = strconv.Itoa(*sk.Data.Level)
		}
		marker := " "
		if h.Active() && h.Nodes[sk.ID] {
			marker = "★"
		}
		fmt.Fprintf(s.out, "%-8s %s%-3s %-30s  %5s  %5d  %s\n",
			shortID(sk.ID), marker, state.Icon(), name, level,
			len(skillgraph.Prerequisites(t, sk.ID)), state.Label())
	}

	fmt.Fprintf(s.out, "\n%d skills\n", len(rows))
}

func init() {
	addCmd.Flags().StringP("name", "n", "", "Skill name (required, up to 50 characters)")
	addCmd.Flags().StringP("description", "d", "", "What the skill covers (required, up to 150 characters)")
	addCmd.Flags().StringP("level", "l", "", "Optional level, 0-999")

	listCmd.Flags().String("state", "", "Only show skills in this state (locked, available or unlocked)")
}
