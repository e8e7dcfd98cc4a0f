package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadFallsBackOnBadNumbers(t *testing.T) {
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-5")
	t.Setenv("SNAPSHOT_DELAY_MS", "")

	cfg := Load()
	if cfg.ReportCacheTTLSeconds != 30 {
		t.Fatalf("expected default cache TTL 30, got %d", cfg.ReportCacheTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected default token TTL 480, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.SnapshotDelayMS != 2000 {
		t.Fatalf("expected default snapshot delay 2000, got %d", cfg.SnapshotDelayMS)
	}
}

func TestLoadStoreCredentials(t *testing.T) {
	t.Setenv("STORE_USERNAME", "")
	t.Setenv("STORE_PASSWORD", "")

	cfg := Load()
	if cfg.StoreUsername != DefaultStoreUsername || cfg.StorePassword != DefaultStorePassword {
		t.Fatalf("expected dev default credentials, got %q/%q", cfg.StoreUsername, cfg.StorePassword)
	}

	t.Setenv("STORE_USERNAME", "pemilik")
	t.Setenv("STORE_PASSWORD", "sandi-kuat-99")

	cfg = Load()
	if cfg.StoreUsername != "pemilik" || cfg.StorePassword != "sandi-kuat-99" {
		t.Fatalf("expected environment credentials, got %q/%q", cfg.StoreUsername, cfg.StorePassword)
	}
}

func TestAddress(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg := Load()
	if cfg.Address() != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Address())
	}
}
