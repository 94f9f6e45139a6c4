package plan

import (
	"go.uber.org/zap"

	"config-binder/internal/analyze"
	"config-binder/internal/binder"
	"config-binder/internal/binding"
	"config-binder/internal/convert"
	"config-binder/internal/diagnostic"
	"config-binder/internal/discover"
	"config-binder/internal/subst"
)

// Builder runs the resolution pipeline for one binder over a declaration graph.
type Builder struct {
	decls     discover.Declarations
	binder    binder.Binder
	evaluator *subst.Evaluator
	resolver  *convert.Resolver
	logger    *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithEvaluator sets the evaluator for templated binding names.
func WithEvaluator(ev *subst.Evaluator) Option {
	return func(b *Builder) { b.evaluator = ev }
}

// WithResolver replaces the default conversion resolver.
func WithResolver(r *convert.Resolver) Option {
	return func(b *Builder) { b.resolver = r }
}

// WithLogger sets the logger for stage progress.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder. Without options it uses no namespaces, the
// default probe chain and a no-op logger.
func NewBuilder(decls discover.Declarations, b binder.Binder, opts ...Option) *Builder {
	builder := &Builder{
		decls:    decls,
		binder:   b,
		resolver: convert.NewResolver(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(builder)
	}

	if builder.evaluator == nil {
		builder.evaluator = subst.NewEvaluator(nil, b.DefaultNamespace)
	}

	return builder
}

// Build resolves the bindings reachable from root. The plan is nil when the
// root is unknown or a structural rule is violated; other errors only drop
// the affected sites or representations.
func (b *Builder) Build(root analyze.TypeID) (*BindingPlan, diagnostic.Diagnostics) {
	log := b.logger.With(zap.String("root", root.String()), zap.String("binder", b.binder.Name))

	sites, diags := discover.NewDiscoverer(b.decls).Discover(root)
	if len(diags.WithCode(diagnostic.CodeUnknownRoot)) > 0 {
		return nil, diags
	}

	sites = discover.FilterSource(sites, b.binder.Source)
	log.Debug("discovered sites", zap.Int("sites", len(sites)))

	defs, reps, aggDiags := Aggregate(sites, b.binder, b.evaluator)
	diags.Merge(aggDiags)
	log.Debug("aggregated bindings", zap.Int("definitions", len(defs)), zap.Int("representations", len(reps)))

	structural := b.validate(defs)
	diags.Merge(structural)

	if structural.HasErrors() {
		log.Debug("structural errors, no plan produced", zap.Int("errors", len(structural.Errors())))
		return nil, diags
	}

	kept := make([]Representation, 0, len(reps))
	conversions := make(map[binding.RepresentationKey]convert.Expression, len(reps))

	for _, rep := range reps {
		expr, err := b.resolver.Resolve(rep.Type, b.binder.RawType(rep.Type))
		if err != nil {
			diags.AddError(diagnostic.CodeNoStrategy, err.Error(), rep.Key.String(), nil)
			continue
		}

		expr.Nullable = rep.Nullable
		conversions[rep.Key] = expr
		kept = append(kept, rep)
	}

	log.Debug("resolved conversions", zap.Int("conversions", len(conversions)))

	return newBindingPlan(root, b.binder.Name, defs, kept, conversions), diags
}

func (b *Builder) validate(defs []Definition) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	if b.binder.Positional {
		diags.Merge(ValidatePositions(defs))
	}

	if b.binder.Aliases {
		diags.Merge(ValidateAliases(defs))
	}

	return diags
}
