package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Fatalf("expected memory store by default, got %q", cfg.StoreBackend)
	}
	if cfg.OversMode != playerstats.OversModeBalls {
		t.Fatalf("expected balls overs mode, got %q", cfg.OversMode)
	}
	if cfg.AmbiguousFielder != playerstats.AmbiguousFirstMatch {
		t.Fatalf("expected first_match policy, got %q", cfg.AmbiguousFielder)
	}
	if cfg.RecentInnings != 10 || cfg.RecentMatches != 10 || cfg.RecentForm != 5 {
		t.Fatalf("unexpected recent windows: innings=%d matches=%d form=%d", cfg.RecentInnings, cfg.RecentMatches, cfg.RecentForm)
	}
	if cfg.RecomputeMaxWorkers != 4 {
		t.Fatalf("expected 4 recompute workers, got %d", cfg.RecomputeMaxWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("expected info log level, got %v", cfg.LogLevel)
	}
	if !cfg.SwaggerEnabled || !cfg.MetricsEnabled || !cfg.CacheEnabled {
		t.Fatalf("expected swagger, metrics and cache on in dev: %+v", cfg)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("prod can opt into swagger", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true")
		}
	})
}

func TestLoad_StoreBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "Postgres")
		t.Setenv("DB_URL", "postgres://u:p@db:5432/stats")
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreBackend != StorePostgres {
			t.Fatalf("expected postgres backend, got %q", cfg.StoreBackend)
		}
		if cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=false")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "firestore")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORE_BACKEND")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheEnabled {
		t.Fatalf("expected CacheEnabled=false")
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}

	t.Setenv("CACHE_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive CACHE_TTL")
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for empty origin list")
	}
}

func TestLoad_Telemetry(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("uptrace requires dsn", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		t.Setenv("UPTRACE_DSN", "")
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
		}
	})

	t.Run("uptrace dsn from otlp headers", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		t.Setenv("UPTRACE_DSN", "")
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
			t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
		}
	})

	t.Run("pyroscope requires server and defaults app name", func(t *testing.T) {
		t.Setenv("PYROSCOPE_ENABLED", "true")
		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PYROSCOPE_ENABLED=true without server")
		}

		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://pyroscope:4040")
		t.Setenv("APP_SERVICE_NAME", "stats-api")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PyroscopeAppName != "stats-api" {
			t.Fatalf("expected app name to default to service name, got %q", cfg.PyroscopeAppName)
		}
	})

	t.Run("pprof", func(t *testing.T) {
		t.Setenv("PPROF_ENABLED", "true")
		t.Setenv("PPROF_ADDR", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.PprofEnabled || cfg.PprofAddr != ":6060" {
			t.Fatalf("unexpected pprof config: enabled=%v addr=%q", cfg.PprofEnabled, cfg.PprofAddr)
		}
	})
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "qstash-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://stats.example.com")
	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	t.Setenv("QSTASH_RETRIES", "5")
	t.Setenv("QSTASH_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.QStashEnabled || cfg.QStashRetries != 5 {
		t.Fatalf("unexpected qstash config: %+v", cfg)
	}
	if cfg.QStashBaseURL != "https://qstash.upstash.io" {
		t.Fatalf("unexpected QStashBaseURL: %q", cfg.QStashBaseURL)
	}
	if !cfg.QStashCircuit.Enabled || cfg.QStashCircuit.FailureThreshold != 7 || cfg.QStashCircuit.OpenTimeout != 30*time.Second {
		t.Fatalf("unexpected circuit config: %+v", cfg.QStashCircuit)
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without INTERNAL_JOB_TOKEN")
	}
}

func TestLoad_StatsOptions(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "legacy overs", env: map[string]string{"STATS_OVERS_MODE": "LEGACY_DECIMAL"}},
		{name: "skip ambiguous", env: map[string]string{"STATS_AMBIGUOUS_FIELDER_POLICY": "skip"}},
		{name: "custom windows", env: map[string]string{"STATS_RECENT_INNINGS": "3", "STATS_RECENT_FORM": "2"}},
		{name: "bad overs mode", env: map[string]string{"STATS_OVERS_MODE": "halves"}, wantErr: true},
		{name: "bad policy", env: map[string]string{"STATS_AMBIGUOUS_FIELDER_POLICY": "random"}, wantErr: true},
		{name: "zero window", env: map[string]string{"STATS_RECENT_MATCHES": "0"}, wantErr: true},
		{name: "bad workers", env: map[string]string{"RECOMPUTE_MAX_WORKERS": "many"}, wantErr: true},
		{name: "bad log level", env: map[string]string{"APP_LOG_LEVEL": "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.env)
				}
				return
			}
			if err != nil {
				t.Fatalf("load config: %v", err)
			}

			opts := cfg.PlayerStatsOptions()
			if v, ok := tt.env["STATS_OVERS_MODE"]; ok && opts.OversMode != playerstats.OversModeLegacyDecimal {
				t.Fatalf("expected legacy overs for %q, got %q", v, opts.OversMode)
			}
			if _, ok := tt.env["STATS_AMBIGUOUS_FIELDER_POLICY"]; ok && opts.AmbiguousFielder != playerstats.AmbiguousSkip {
				t.Fatalf("expected skip policy, got %q", opts.AmbiguousFielder)
			}
			if _, ok := tt.env["STATS_RECENT_INNINGS"]; ok {
				if opts.RecentInnings != 3 || cfg.TeamStatsOptions().RecentForm != 2 {
					t.Fatalf("unexpected windows: %+v %+v", opts, cfg.TeamStatsOptions())
				}
			}
		})
	}
}
