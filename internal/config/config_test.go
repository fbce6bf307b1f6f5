package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	unsetenv(t, "PORT", "NEWSTTL", "INTELTTL", "TRENDTTL", "STOCKTTL", "GENRETRYDELAY", "CORSORIGINS")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.NewsTTL != 30*time.Minute {
		t.Fatalf("NewsTTL = %v, want 30m", cfg.NewsTTL)
	}
	if cfg.IntelTTL != 7*24*time.Hour {
		t.Fatalf("IntelTTL = %v, want 168h", cfg.IntelTTL)
	}
	if cfg.TrendTTL != 3*24*time.Hour {
		t.Fatalf("TrendTTL = %v, want 72h", cfg.TrendTTL)
	}
}

func TestNewReadsKeysAndOrigins(t *testing.T) {
	t.Setenv("FINNHUBKEY1", "fh-a")
	t.Setenv("FINNHUBKEY2", "")
	t.Setenv("FINNHUBKEY3", "fh-c")
	t.Setenv("GEMINIKEY2", "gm-b")
	t.Setenv("CORSORIGINS", "https://stak.app,http://localhost:5173")
	unsetenv(t, "NEWSTTL", "INTELTTL", "TRENDTTL", "STOCKTTL", "GENRETRYDELAY")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := cfg.FinnhubKeys(); !reflect.DeepEqual(got, []string{"fh-a", "fh-c"}) {
		t.Fatalf("FinnhubKeys = %v", got)
	}
	if got := cfg.GeminiKeys(); !reflect.DeepEqual(got, []string{"gm-b"}) {
		t.Fatalf("GeminiKeys = %v", got)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://stak.app" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestNewRejectsBadDuration(t *testing.T) {
	unsetenv(t, "NEWSTTL", "INTELTTL", "TRENDTTL", "GENRETRYDELAY")
	t.Setenv("STOCKTTL", "soon")
	if _, err := New(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

// unsetenv clears keys for the test and restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
