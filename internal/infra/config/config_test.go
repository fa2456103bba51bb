package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageMode != "memory" {
		t.Fatalf("StorageMode = %q, want memory", cfg.StorageMode)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
	if len(cfg.RetryBackoff) != 3 {
		t.Fatalf("RetryBackoff = %v", cfg.RetryBackoff)
	}
}

func TestLoadMongoModeRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_MODE", "mongo")
	t.Setenv("MONGO_URI", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for mongo mode without MONGO_URI")
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for mongo mode without KAFKA_BROKERS")
	}

	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.KafkaBrokers) != 1 {
		t.Fatalf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE_MODE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
	t.Setenv("STORAGE_MODE", "memory")
	t.Setenv("OUTBOX_POLL_INTERVAL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}
