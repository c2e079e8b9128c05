package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

func TestClientGeneratePolicies(t *testing.T) {
	var received Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]ir.GeneratedPolicy{
			{Name: "suggested", Schema: "public", Table: "posts", Command: ir.PolicyCommandSelect},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	policies, err := client.GeneratePolicies(context.Background(), Request{
		TableName: "posts",
		Schema:    "public",
		Columns:   []string{"id", "user_id"},
	})
	if err != nil {
		t.Fatalf("GeneratePolicies() error = %v", err)
	}

	if len(policies) != 1 || policies[0].Name != "suggested" {
		t.Errorf("GeneratePolicies() = %v, want the suggested policy", policies)
	}
	if received.TableName != "posts" || received.Schema != "public" {
		t.Errorf("request = %+v, want table posts in schema public", received)
	}
}

func TestClientGeneratePoliciesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.GeneratePolicies(context.Background(), Request{TableName: "posts"}); err == nil {
		t.Fatal("GeneratePolicies() error = nil, want error on 503")
	}
}

func TestClientGeneratePoliciesMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.GeneratePolicies(context.Background(), Request{TableName: "posts"}); err == nil {
		t.Fatal("GeneratePolicies() error = nil, want decode error")
	}
}
