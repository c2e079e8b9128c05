package pgpolicy

import "context"

// SuggestPolicies is a convenience function to suggest starting
// policies for a table without the AI fallback.
func SuggestPolicies(ctx context.Context, dbConfig DatabaseConfig, table string) ([]GeneratedPolicy, error) {
	client := NewClient(dbConfig)
	return client.Suggest(ctx, SuggestOptions{Table: table})
}

// ListTemplates is a convenience function to list the smart policy
// templates for a table.
func ListTemplates(ctx context.Context, dbConfig DatabaseConfig, table string) ([]PolicyTemplate, error) {
	client := NewClient(dbConfig)
	return client.Templates(ctx, TemplateOptions{Table: table})
}

// RenderPolicy is a convenience function to render the DDL for a
// policy form. Pass a nil original for a new policy.
func RenderPolicy(form *PolicyForm, original *Policy) Change {
	return (&Client{}).Render(form, original)
}
