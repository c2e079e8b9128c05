package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/pgpolicy/pgpolicy/internal/ai"
	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// mockGenerator counts calls and returns canned policies or an error.
type mockGenerator struct {
	calls    int
	policies []ir.GeneratedPolicy
	err      error
}

func (m *mockGenerator) GeneratePolicies(ctx context.Context, req ai.Request) ([]ir.GeneratedPolicy, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.policies, nil
}

func TestStartingPoliciesPrefersProgrammatic(t *testing.T) {
	mock := &mockGenerator{policies: []ir.GeneratedPolicy{{Name: "ai"}}}

	policies := StartingPolicies(context.Background(), StartingPolicyOptions{
		Table:            postsTable(),
		Constraints:      []*ir.ForeignKeyConstraint{directUserFK()},
		EnableAI:         true,
		AI:               mock,
		ConnectionString: "postgres://localhost/app",
	})

	if len(policies) != 4 {
		t.Fatalf("StartingPolicies() = %d policies, want the 4 programmatic ones", len(policies))
	}
	if mock.calls != 0 {
		t.Errorf("AI generator called %d times, want 0 when a FK path exists", mock.calls)
	}
}

func TestStartingPoliciesAIDisabled(t *testing.T) {
	mock := &mockGenerator{policies: []ir.GeneratedPolicy{{Name: "ai"}}}

	policies := StartingPolicies(context.Background(), StartingPolicyOptions{
		Table:            postsTable(),
		Constraints:      nil,
		EnableAI:         false,
		AI:               mock,
		ConnectionString: "postgres://localhost/app",
	})

	if len(policies) != 0 {
		t.Errorf("StartingPolicies() = %d policies, want 0 with AI disabled and no path", len(policies))
	}
	if mock.calls != 0 {
		t.Errorf("AI generator called %d times, want 0 with AI disabled", mock.calls)
	}
}

func TestStartingPoliciesFallsBackToAI(t *testing.T) {
	mock := &mockGenerator{policies: []ir.GeneratedPolicy{{Name: "ai suggestion"}}}

	policies := StartingPolicies(context.Background(), StartingPolicyOptions{
		Table:            postsTable(),
		Constraints:      nil,
		EnableAI:         true,
		AI:               mock,
		ConnectionString: "postgres://localhost/app",
	})

	if len(policies) != 1 || policies[0].Name != "ai suggestion" {
		t.Fatalf("StartingPolicies() = %v, want the AI suggestion", policies)
	}
	if mock.calls != 1 {
		t.Errorf("AI generator called %d times, want 1", mock.calls)
	}
}

func TestAIPoliciesShortCircuitWithoutConnectionString(t *testing.T) {
	mock := &mockGenerator{policies: []ir.GeneratedPolicy{{Name: "ai"}}}

	policies := AIPolicies(context.Background(), StartingPolicyOptions{
		Table:            postsTable(),
		EnableAI:         true,
		AI:               mock,
		ConnectionString: "",
	})

	if len(policies) != 0 {
		t.Errorf("AIPolicies() = %v, want empty without a connection string", policies)
	}
	if mock.calls != 0 {
		t.Errorf("AI generator called %d times, want 0 without a connection string", mock.calls)
	}
}

func TestAIPoliciesFailOpen(t *testing.T) {
	mock := &mockGenerator{err: errors.New("model unavailable")}

	policies := AIPolicies(context.Background(), StartingPolicyOptions{
		Table:            postsTable(),
		EnableAI:         true,
		AI:               mock,
		ConnectionString: "postgres://localhost/app",
	})

	if len(policies) != 0 {
		t.Errorf("AIPolicies() = %v, want empty on generation error", policies)
	}
	if mock.calls != 1 {
		t.Errorf("AI generator called %d times, want 1", mock.calls)
	}
}

func TestAIPoliciesTrimsColumnNames(t *testing.T) {
	var captured ai.Request
	mock := &capturingGenerator{}

	table := &ir.Table{
		Schema: "public",
		Name:   "posts",
		Columns: []*ir.Column{
			{Name: "  user_id  ", DataType: "uuid"},
			{Name: "title", DataType: "text"},
		},
	}

	AIPolicies(context.Background(), StartingPolicyOptions{
		Table:            table,
		EnableAI:         true,
		AI:               mock,
		ConnectionString: "postgres://localhost/app",
	})
	captured = mock.req

	want := []string{"user_id", "title"}
	if len(captured.Columns) != len(want) {
		t.Fatalf("request columns = %v, want %v", captured.Columns, want)
	}
	for i, col := range want {
		if captured.Columns[i] != col {
			t.Errorf("request column %d = %q, want %q", i, captured.Columns[i], col)
		}
	}
}

type capturingGenerator struct {
	req ai.Request
}

func (c *capturingGenerator) GeneratePolicies(ctx context.Context, req ai.Request) ([]ir.GeneratedPolicy, error) {
	c.req = req
	return nil, nil
}
