package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured components without generating code",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	res, err := s.scan()
	if err != nil {
		return err
	}

	results, err := s.build(cmd.Context(), res)
	if err != nil {
		return err
	}

	reportErr := s.report(results)

	for _, r := range results {
		ok := r.Plan != nil && !r.Diagnostics.HasErrors()
		if ok {
			s.printer.status(true, "%s (%s): %d definitions, %d representations",
				r.Component.Root, r.Binder.Name, len(r.Plan.Definitions()), len(r.Plan.Representations()))
		} else {
			s.printer.status(false, "%s (%s)", r.Component.Root, r.Binder.Name)
		}
	}

	return reportErr
}
