package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"config-binder/internal/gen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate provider modules for the configured components",
	Long: `Generate resolves every configured component and writes one provider file
per component, plus a shared support file, into the output directory. Nothing
is written when any component has errors.

With --watch the command keeps running and regenerates whenever a scanned Go
source file or the config file changes.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("dry-run", false, "list the files that would be written")
	generateCmd.Flags().String("package-path", "", "import path of the output package; its types are referenced unqualified")
	generateCmd.Flags().Bool("no-comments", false, "omit binding and conversion notes from accessor docs")
	generateCmd.Flags().Bool("watch", false, "regenerate on source or config changes until interrupted")
}

type generateOptions struct {
	dryRun     bool
	pkgPath    string
	noComments bool
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	var opts generateOptions

	var err error

	if opts.dryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	if opts.pkgPath, err = cmd.Flags().GetString("package-path"); err != nil {
		return fmt.Errorf("failed to get package-path flag: %w", err)
	}

	if opts.noComments, err = cmd.Flags().GetBool("no-comments"); err != nil {
		return fmt.Errorf("failed to get no-comments flag: %w", err)
	}

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	dirs, err := generateOnce(cmd.Context(), s, opts)
	if !watch {
		return err
	}

	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	return watchAndGenerate(cmd, s, dirs, opts)
}

// generateOnce scans, builds and writes every component. It returns the
// scanned source directories, even when generation fails after scanning.
func generateOnce(ctx context.Context, s *session, opts generateOptions) ([]string, error) {
	res, err := s.scan()
	if err != nil {
		if res != nil {
			return res.Dirs, err
		}

		return nil, err
	}

	results, err := s.build(ctx, res)
	if err != nil {
		return res.Dirs, err
	}

	if err := s.report(results); err != nil {
		return res.Dirs, err
	}

	units := make([]gen.Unit, 0, len(results))
	for _, r := range results {
		units = append(units, gen.Unit{Plan: r.Plan, Filename: r.Component.File})
	}

	g := gen.NewGenerator(gen.GeneratorConfig{
		PackageName:      s.cfg.Package,
		PackagePath:      opts.pkgPath,
		OutputDir:        s.cfg.Output,
		GenerateComments: !opts.noComments,
	})

	files, err := g.Generate(units)
	if err != nil {
		return res.Dirs, err
	}

	if !opts.dryRun {
		if err := gen.WriteFiles(files, s.cfg.Output); err != nil {
			return res.Dirs, err
		}
	}

	for _, f := range files {
		s.printer.status(true, "%s/%s", s.cfg.Output, f.Filename)
	}

	s.logger.Debug("generated", zap.Int("files", len(files)), zap.Bool("dry_run", opts.dryRun))

	return res.Dirs, nil
}

// watchAndGenerate reruns generateOnce on every change until interrupted.
// The watched directories are fixed by the first scan; the config file is
// reloaded on every run.
func watchAndGenerate(cmd *cobra.Command, s *session, dirs []string, opts generateOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if len(dirs) == 0 {
		dirs = []string{s.cfg.Dir}
	}

	w, err := newWatcher(dirs, s.configPath, s.cfg.Output, s.logger)
	if err != nil {
		return err
	}

	s.logger.Info("watching for changes", zap.Strings("dirs", dirs), zap.String("config", s.configPath))
	fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes, press Ctrl+C to stop")

	return w.run(ctx, func() {
		next, err := newSession(cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		if _, err := generateOnce(ctx, next, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}
