package main

import (
	"context"
	"fmt"
	"maps"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"config-binder/internal/binder"
	"config-binder/internal/config"
	"config-binder/internal/diagnostic"
	"config-binder/internal/plan"
	"config-binder/internal/scan"
	"config-binder/internal/subst"
)

// session is the state shared by the subcommands: config, logger, printer
// and generation-time namespaces.
type session struct {
	configPath string
	cfg        *config.File
	logger     *zap.Logger
	printer    *printer
	namespaces subst.Namespaces
}

// componentResult is the outcome of building one configured component.
type componentResult struct {
	Component   config.Component
	Binder      binder.Binder
	Plan        *plan.BindingPlan
	Diagnostics diagnostic.Diagnostics
}

// newSession reads the persistent flags and loads the config file.
func newSession(cmd *cobra.Command) (*session, error) {
	s, err := newBareSession(cmd)
	if err != nil {
		return nil, err
	}

	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}

		if path, err = config.Find(wd); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	s.configPath = path
	s.cfg = cfg
	s.logger.Debug("loaded config", zap.String("path", path), zap.Int("components", len(cfg.Components)))

	defines, err := cmd.Root().PersistentFlags().GetStringArray("define")
	if err != nil {
		return nil, fmt.Errorf("failed to get define flag: %w", err)
	}

	if s.namespaces, err = buildNamespaces(cfg, defines); err != nil {
		return nil, err
	}

	return s, nil
}

// newBareSession sets up logging and output without a config file.
func newBareSession(cmd *cobra.Command) (*session, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	p, err := newPrinter(cmd.OutOrStdout(), colorFlag, isTerminal(os.Stdout))
	if err != nil {
		return nil, err
	}

	return &session{logger: logger, printer: p}, nil
}

// buildNamespaces merges config properties with -D overrides.
func buildNamespaces(cfg *config.File, defines []string) (subst.Namespaces, error) {
	overrides, err := binder.ParseProperties(defines)
	if err != nil {
		return nil, err
	}

	props := maps.Clone(cfg.Properties)
	if props == nil {
		props = make(map[string]string, len(overrides))
	}

	maps.Copy(props, overrides)

	return binder.Namespaces(os.Environ(), props, cfg.Namespaces)
}

// scan loads the configured packages. A malformed declaration drops its
// binding, so any scan error fails the run; the result is still returned
// so callers can see which directories were read.
func (s *session) scan() (*scan.Result, error) {
	res, err := scan.NewLoader(s.cfg.Dir, s.logger).Load(s.cfg.Packages...)
	if err != nil {
		return nil, err
	}

	if res.Diagnostics.Len() > 0 {
		s.printer.diagnostics("scan", res.Diagnostics)
	}

	if res.Diagnostics.HasErrors() {
		return res, fmt.Errorf("scan failed with %d errors", len(res.Diagnostics.Errors()))
	}

	return res, nil
}

// build runs one Builder per configured component concurrently. Results are
// returned in config order.
func (s *session) build(ctx context.Context, res *scan.Result) ([]componentResult, error) {
	results := make([]componentResult, len(s.cfg.Components))

	g, gctx := errgroup.WithContext(ctx)

	for i, c := range s.cfg.Components {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			b, err := binder.Lookup(c.Binder)
			if err != nil {
				return err
			}

			builder := plan.NewBuilder(res.Graph, b,
				plan.WithEvaluator(subst.NewEvaluator(s.namespaces, b.DefaultNamespace)),
				plan.WithLogger(s.logger),
			)

			p, diags := builder.Build(c.RootID())
			results[i] = componentResult{Component: c, Binder: b, Plan: p, Diagnostics: diags}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// report prints every component's diagnostics and returns an error when any
// component failed.
func (s *session) report(results []componentResult) error {
	failed := 0

	for _, r := range results {
		if r.Diagnostics.Len() > 0 {
			s.printer.diagnostics(r.Component.Root+" ("+r.Component.Binder+")", r.Diagnostics)
		}

		if r.Plan == nil || r.Diagnostics.HasErrors() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d components failed", failed, len(results))
	}

	return nil
}

// run loads, builds and reports. It is the common prefix of generate, check
// and plan.
func (s *session) run(ctx context.Context) ([]componentResult, error) {
	res, err := s.scan()
	if err != nil {
		return nil, err
	}

	results, err := s.build(ctx, res)
	if err != nil {
		return nil, err
	}

	return results, s.report(results)
}
