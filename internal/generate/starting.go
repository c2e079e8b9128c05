package generate

import (
	"context"
	"strings"

	"github.com/pgpolicy/pgpolicy/internal/ai"
	"github.com/pgpolicy/pgpolicy/internal/ir"
	"github.com/pgpolicy/pgpolicy/internal/logger"
)

// StartingPolicyOptions configures StartingPolicies.
type StartingPolicyOptions struct {
	Table       *ir.Table
	Constraints []*ir.ForeignKeyConstraint

	// AI fallback. The generator is only consulted when no foreign key
	// path to auth.users exists and EnableAI is set.
	EnableAI         bool
	AI               ai.Generator
	ProjectRef       string
	ConnectionString string
}

// StartingPolicies returns the suggested starting policies for a
// table. Programmatic generation always wins when a foreign key path
// exists; the AI generator is a fallback, never a second opinion. With
// EnableAI unset and no path, the result is empty and no network call
// is made.
func StartingPolicies(ctx context.Context, opts StartingPolicyOptions) []ir.GeneratedPolicy {
	if policies := ProgrammaticPolicies(opts.Table, opts.Constraints); len(policies) > 0 {
		return policies
	}

	if !opts.EnableAI {
		return nil
	}

	return AIPolicies(ctx, opts)
}

// AIPolicies asks the AI generator for policies. It short-circuits to
// an empty result without any network call when the connection string
// is missing, and degrades any generation error to an empty result
// after logging it: a failed suggestion must never break manual policy
// creation.
func AIPolicies(ctx context.Context, opts StartingPolicyOptions) []ir.GeneratedPolicy {
	if opts.ConnectionString == "" || opts.AI == nil {
		return nil
	}

	columns := make([]string, 0, len(opts.Table.Columns))
	for _, col := range opts.Table.Columns {
		columns = append(columns, strings.TrimSpace(col.Name))
	}

	policies, err := opts.AI.GeneratePolicies(ctx, ai.Request{
		TableName:        opts.Table.Name,
		Schema:           opts.Table.Schema,
		Columns:          columns,
		ProjectRef:       opts.ProjectRef,
		ConnectionString: opts.ConnectionString,
	})
	if err != nil {
		logger.Get().Warn("AI policy generation failed",
			"schema", opts.Table.Schema,
			"table", opts.Table.Name,
			"error", err,
		)
		return nil
	}

	return policies
}
