package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EXTRACTOR_MODE", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("GRAPH_SYNC_ENABLED", "")

	cfg := Load()
	if cfg.ExtractorMode != "rule" {
		t.Fatalf("expected default extractor mode rule, got %q", cfg.ExtractorMode)
	}
	if cfg.NATSSubject != "plans.build" {
		t.Fatalf("expected default nats subject plans.build, got %q", cfg.NATSSubject)
	}
	if cfg.ChunkSize != 4000 {
		t.Fatalf("expected default chunk size 4000, got %d", cfg.ChunkSize)
	}
	if cfg.APIRateLimitRPS != 10 {
		t.Fatalf("expected default rate limit 10 rps, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.GraphSyncEnabled {
		t.Fatalf("expected graph sync disabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("EXTRACTOR_MODE", "hybrid")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("GRAPH_SYNC_ENABLED", "true")

	cfg := Load()
	if cfg.ExtractorMode != "hybrid" {
		t.Fatalf("expected extractor mode override, got %q", cfg.ExtractorMode)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("expected max upload bytes 1048576, got %d", cfg.MaxUploadBytes)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5 rps, got %v", cfg.APIRateLimitRPS)
	}
	if !cfg.GraphSyncEnabled {
		t.Fatalf("expected graph sync enabled")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.ChunkSize != 4000 {
		t.Fatalf("expected fallback chunk size on parse error, got %d", cfg.ChunkSize)
	}
	if cfg.APIRateLimitRPS != 10 {
		t.Fatalf("expected fallback rate limit on parse error, got %v", cfg.APIRateLimitRPS)
	}
}
