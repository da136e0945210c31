package config

import (
	"strings"
	"testing"
)

func TestLoadLocalDefaults(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Sync.Collection != "orders" || cfg.Sync.OrderBy != "created_at" {
		t.Fatalf("unexpected sync source: %+v", cfg.Sync)
	}
	if cfg.Sync.Project != "local" || cfg.Sync.Dataset != "analytics" || cfg.Sync.Table != "orders" {
		t.Fatalf("local destination defaults not applied: %+v", cfg.Sync)
	}
	if cfg.Sync.DefaultLimit != 1000 || cfg.Sync.DefaultBatchSize != 500 {
		t.Fatalf("unexpected run defaults: %+v", cfg.Sync)
	}
	if !cfg.IsLocalDevelopment() {
		t.Fatal("local environment not recognized")
	}
}

func TestLoadRequiresTokenInProduction(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "production")
	t.Setenv("ORDERSYNC_WAREHOUSE_PROJECT", "acme")
	t.Setenv("ORDERSYNC_WAREHOUSE_DATASET", "analytics")
	t.Setenv("ORDERSYNC_WAREHOUSE_TABLE", "orders")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without API token in production")
	} else if !strings.Contains(err.Error(), "ORDERSYNC_API_TOKEN") {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("ORDERSYNC_API_TOKEN", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with token: %v", err)
	}
	if cfg.Auth.APIToken != "secret" {
		t.Fatalf("token = %q", cfg.Auth.APIToken)
	}
	if cfg.IsLocalDevelopment() {
		t.Fatal("production classified as local")
	}
}

func TestLoadForToolSkipsTokenRequirement(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "production")

	cfg, err := LoadForTool()
	if err != nil {
		t.Fatalf("load for tool: %v", err)
	}
	if cfg.Auth.APIToken != "" {
		t.Fatalf("token = %q, want empty", cfg.Auth.APIToken)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "local")
	t.Setenv("ORDERSYNC_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestLoadClampsBatchSize(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "local")
	t.Setenv("ORDERSYNC_SYNC_BATCH_SIZE", "50000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sync.DefaultBatchSize != 10000 {
		t.Fatalf("batch size = %d, want clamp to 10000", cfg.Sync.DefaultBatchSize)
	}
}

func TestObservabilityEnabledByEndpoint(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "local")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://otlp.example.com")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=Basic abc,team=data")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_HEADERS", "team=tracing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Observability.Enabled {
		t.Fatal("observability not enabled by endpoint")
	}
	if cfg.Observability.OTLPTraceHeaders["team"] != "tracing" {
		t.Fatalf("trace header override missing: %v", cfg.Observability.OTLPTraceHeaders)
	}
	if cfg.Observability.OTLPTraceHeaders["authorization"] != "Basic abc" {
		t.Fatalf("common header missing: %v", cfg.Observability.OTLPTraceHeaders)
	}
	if cfg.Observability.OTLPMetricHeaders["team"] != "data" {
		t.Fatalf("metric headers polluted by trace override: %v", cfg.Observability.OTLPMetricHeaders)
	}
}

func TestSamplingRatioClamped(t *testing.T) {
	t.Setenv("ORDERSYNC_ENV", "local")
	t.Setenv("ORDERSYNC_OTEL_SAMPLING_RATIO", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Observability.SamplingRatio != 1 {
		t.Fatalf("sampling ratio = %v, want clamp to 1", cfg.Observability.SamplingRatio)
	}
}
