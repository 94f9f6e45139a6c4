package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"config-binder/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Export the resolved binding plans",
	Long: `Plan resolves the configured components and prints each plan. With
--format yaml or msgpack the plans are serialized for external emitters;
--out writes one file per component instead of printing.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("format", "text", "output format (text|yaml|msgpack)")
	planCmd.Flags().String("out", "", "directory to write <root>_<binder>.<ext> files to")
	planCmd.Flags().String("read", "", "print the summary of a msgpack plan file and exit")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	if path, err := cmd.Flags().GetString("read"); err != nil {
		return fmt.Errorf("failed to get read flag: %w", err)
	} else if path != "" {
		return readPlan(cmd, path)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	if format == "msgpack" && outDir == "" {
		return fmt.Errorf("msgpack output needs --out")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	results, err := s.run(cmd.Context())
	if err != nil {
		return err
	}

	for _, r := range results {
		data, ext, err := encodePlan(r.Plan, format)
		if err != nil {
			return err
		}

		if outDir == "" {
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			continue
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		name := filepath.Join(outDir, strings.ToLower(r.Plan.Root().Name)+"_"+r.Binder.Name+"."+ext)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}

		s.printer.status(true, "%s", name)
	}

	return nil
}

// encodePlan serializes p and returns the file extension for format.
func encodePlan(p *plan.BindingPlan, format string) ([]byte, string, error) {
	switch format {
	case "text":
		return []byte(plan.FormatSummary(plan.Export(p))), "txt", nil
	case "yaml":
		data, err := plan.ExportYAML(p)
		return data, "yaml", err
	case "msgpack":
		data, err := plan.ExportMsgpack(p)
		return data, "msgpack", err
	default:
		return nil, "", fmt.Errorf("unknown format %q (want text, yaml or msgpack)", format)
	}
}

func readPlan(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	doc, err := plan.ImportMsgpack(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), plan.FormatSummary(doc))

	return nil
}
