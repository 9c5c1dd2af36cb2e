package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltree/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tree to a file or stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		compress, _ := cmd.Flags().GetBool("compress")
		output, _ := cmd.Flags().GetString("output")

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		toFile := output != "" && output != "-"
		var w io.Writer = s.out
		if toFile {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		t := s.mgr.Tree()
		if err := export.Encode(w, t, export.Options{Format: format, Compress: compress}); err != nil {
			return err
		}
		if toFile {
			fmt.Fprintf(s.out, "Exported %d skills and %d links to %s\n", len(t.Skills), len(t.Edges), output)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the tree with one read from a file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		t, err := export.Decode(r)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.mgr.Replace(cmd.Context(), *t); err != nil {
			return s.finish(err)
		}
		fmt.Fprintf(s.out, "Imported %d skills and %d links\n", len(t.Skills), len(t.Edges))
		return s.finish(nil)
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", string(export.FormatJSON), "Output format: json or msgpack")
	exportCmd.Flags().BoolP("compress", "z", false, "Wrap the output in a zstd frame")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
