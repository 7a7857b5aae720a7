package infra

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("ENRICH_MODE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageDriver != DriverMemory {
		t.Fatalf("StorageDriver = %q, want %q", cfg.StorageDriver, DriverMemory)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %s, want 24h", cfg.SessionTTL)
	}
	if cfg.EnrichConcurrency != 8 || cfg.LeaderboardLimit != 10 || cfg.EnrichMode != "batched" {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestLoadConfigDriverRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "postgres needs url",
			env:     map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "rest needs base url",
			env:     map[string]string{"STORAGE_DRIVER": "REST", "BACKEND_BASE_URL": ""},
			wantErr: "BACKEND_BASE_URL",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "mongo"},
			wantErr: "unsupported STORAGE_DRIVER",
		},
		{
			name:    "unknown enrich mode",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "ENRICH_MODE": "lazy"},
			wantErr: "unsupported ENRICH_MODE",
		},
		{
			name:    "missing secret",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "SESSION_SECRET": ""},
			wantErr: "SESSION_SECRET",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "test-secret")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("LoadConfig() error = %v, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigRestDriver(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "rest")
	t.Setenv("BACKEND_BASE_URL", "https://backend.example.com")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Fatalf("BackendTimeout = %s, want 3s", cfg.BackendTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadStorageConfigWithoutSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig accepted an empty SESSION_SECRET")
	}
	cfg, err := LoadStorageConfig()
	if err != nil {
		t.Fatalf("LoadStorageConfig returned error: %v", err)
	}
	if cfg.StorageDriver != DriverMemory {
		t.Fatalf("StorageDriver = %q", cfg.StorageDriver)
	}
}
