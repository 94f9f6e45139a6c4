package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"config-binder/internal/binder"
	"config-binder/internal/config"
	"config-binder/internal/match"
	"config-binder/internal/subst"
)

var evalCmd = &cobra.Command{
	Use:   "eval <template>",
	Short: "Evaluate a binding-name template against the generation-time namespaces",
	Long: `Eval evaluates a template such as "/${env.STAGE:-dev}/upstream" the way
binding names are evaluated during generation. The config file is optional;
without one only the environment and -D properties are visible.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("binder", "env", "binder whose default namespace resolves ${name} ("+strings.Join(binder.Names(), "|")+")")
	evalCmd.Flags().Bool("refs", false, "list the references instead of evaluating")
}

func runEval(cmd *cobra.Command, args []string) error {
	binderName, err := cmd.Flags().GetString("binder")
	if err != nil {
		return fmt.Errorf("failed to get binder flag: %w", err)
	}

	refsOnly, err := cmd.Flags().GetBool("refs")
	if err != nil {
		return fmt.Errorf("failed to get refs flag: %w", err)
	}

	b, err := binder.Lookup(binderName)
	if err != nil {
		return err
	}

	ns, err := evalNamespaces(cmd)
	if err != nil {
		return err
	}

	ev := subst.NewEvaluator(ns, b.DefaultNamespace)

	tmpl, err := subst.Parse(args[0])
	if err != nil {
		return err
	}

	if refsOnly {
		refs, err := ev.References(tmpl)
		if err != nil {
			return err
		}

		for _, r := range refs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s\n", r[0], r[1])
		}

		return nil
	}

	out, err := ev.Execute(tmpl)
	if err != nil {
		return withSuggestions(err, ns)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}

// evalNamespaces uses the config file when one is given or found, and falls
// back to the environment and -D properties otherwise.
func evalNamespaces(cmd *cobra.Command) (subst.Namespaces, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	s, err := newSession(cmd)
	if err == nil {
		return s.namespaces, nil
	}

	if explicit != "" {
		return nil, err
	}

	defines, err := cmd.Root().PersistentFlags().GetStringArray("define")
	if err != nil {
		return nil, fmt.Errorf("failed to get define flag: %w", err)
	}

	return buildNamespaces(&config.File{}, defines)
}

// withSuggestions adds close names from the referenced namespace to an
// unresolved reference error.
func withSuggestions(err error, ns subst.Namespaces) error {
	var unresolved *subst.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		return err
	}

	values, ok := ns[unresolved.Namespace]
	if !ok {
		return err
	}

	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}

	slices.Sort(names)

	if hints := match.Suggest(unresolved.Name, names); len(hints) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
	}

	return err
}
