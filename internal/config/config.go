package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Sync          SyncConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path string
}

// SyncConfig fixes the source collection and warehouse destination of the
// order sync pipeline. Identifiers are deployment configuration, not runtime
// input; per-run limit/since/batch-size arrive with each trigger request.
type SyncConfig struct {
	Collection       string
	OrderBy          string
	Project          string
	Dataset          string
	Table            string
	DefaultLimit     int
	DefaultBatchSize int
}

type AuthConfig struct {
	APIToken string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
}

func Load() (Config, error) {
	return load(true)
}

// LoadForTool loads config for CLI tools that do not require an API token.
func LoadForTool() (Config, error) {
	return load(false)
}

func load(requireAPIToken bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ordersync_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("ordersync_port", 8080)
	v.SetDefault("ordersync_db_path", "data/default")
	v.SetDefault("ordersync_source_collection", "orders")
	v.SetDefault("ordersync_order_by", "created_at")
	v.SetDefault("ordersync_warehouse_project", "")
	v.SetDefault("ordersync_warehouse_dataset", "")
	v.SetDefault("ordersync_warehouse_table", "")
	v.SetDefault("ordersync_sync_limit", 1000)
	v.SetDefault("ordersync_sync_batch_size", 500)
	v.SetDefault("ordersync_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", "ordersync")
	v.SetDefault("ordersync_version", "dev")
	v.SetDefault("ordersync_otel_sampling_ratio", 1.0)
	v.SetDefault("ordersync_otel_metrics_console", false)

	env := resolveEnvironment(v)
	port := v.GetInt("ordersync_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid ORDERSYNC_PORT: %d", port)
	}

	samplingRatio := v.GetFloat64("ordersync_otel_sampling_ratio")
	if samplingRatio < 0 {
		samplingRatio = 0
	}
	if samplingRatio > 1 {
		samplingRatio = 1
	}

	syncLimit := v.GetInt("ordersync_sync_limit")
	if syncLimit <= 0 {
		syncLimit = 1000
	}
	batchSize := v.GetInt("ordersync_sync_batch_size")
	if batchSize <= 0 {
		batchSize = 500
	}
	if batchSize > 10000 {
		batchSize = 10000
	}

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = "ordersync"
	}
	serviceVersion := strings.TrimSpace(v.GetString("ordersync_version"))
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	otlpCommonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	otlpTraceHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))
	otlpMetricHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))
	metricsConsole := v.GetBool("ordersync_otel_metrics_console")
	otelEnabled := v.GetBool("ordersync_otel_enabled") || otlpEndpoint != "" || metricsConsole

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("ordersync_db_path")),
		},
		Sync: SyncConfig{
			Collection:       strings.TrimSpace(v.GetString("ordersync_source_collection")),
			OrderBy:          strings.TrimSpace(v.GetString("ordersync_order_by")),
			Project:          strings.TrimSpace(v.GetString("ordersync_warehouse_project")),
			Dataset:          strings.TrimSpace(v.GetString("ordersync_warehouse_dataset")),
			Table:            strings.TrimSpace(v.GetString("ordersync_warehouse_table")),
			DefaultLimit:     syncLimit,
			DefaultBatchSize: batchSize,
		},
		Auth: AuthConfig{
			APIToken: strings.TrimSpace(v.GetString("ordersync_api_token")),
		},
		Observability: ObservabilityConfig{
			Enabled:           otelEnabled,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(otlpCommonHeaders, otlpTraceHeaders),
			OTLPMetricHeaders: mergeHeaderMaps(otlpCommonHeaders, otlpMetricHeaders),
			ServiceName:       serviceName,
			ServiceVer:        serviceVersion,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/default"
	}
	if cfg.IsLocalDevelopment() {
		if cfg.Sync.Project == "" {
			cfg.Sync.Project = "local"
		}
		if cfg.Sync.Dataset == "" {
			cfg.Sync.Dataset = "analytics"
		}
		if cfg.Sync.Table == "" {
			cfg.Sync.Table = "orders"
		}
	}
	if requireAPIToken && !cfg.IsLocalDevelopment() && cfg.Auth.APIToken == "" {
		return Config{}, fmt.Errorf("ORDERSYNC_API_TOKEN is required outside local/dev environments")
	}

	return cfg, nil
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pair := strings.SplitN(part, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key := strings.TrimSpace(pair[0])
		value := strings.TrimSpace(pair[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"ordersync_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
