package synctrigger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestTriggerSendsOptionsAndToken(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Result{OK: true, Fetched: 3, InsertSummary: &Summary{
			TotalFetched:  3,
			TotalInserted: 3,
			Batches:       []BatchResult{{Index: 0, Requested: 3, Successful: 3}},
		}})
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL, Token: "secret"}
	result, err := client.Trigger(context.Background(), Options{
		Limit: intPtr(50),
		Since: strPtr("2024-01-01"),
	})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if gotPath != "/api/v1/sync/orders" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody["limit"] != float64(50) || gotBody["since"] != "2024-01-01" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	if _, ok := gotBody["batchSize"]; ok {
		t.Fatalf("nil option serialized: %v", gotBody)
	}
	if !result.OK || result.Fetched != 3 || result.InsertSummary.TotalInserted != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestTriggerReturnsEnvelopeMessageOnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Result{Message: `invalid since value: "nope"`})
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL}
	_, err := client.Trigger(context.Background(), Options{Since: strPtr("nope")})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "invalid since value") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTriggerRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := (Client{}).Trigger(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestTriggerRejectsNonJSONResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := Client{Endpoint: server.URL}
	_, err := client.Trigger(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("status missing from error: %v", err)
	}
}
