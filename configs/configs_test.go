package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STICKERBOARD_STORE_TYPE", "database")
	t.Setenv("STICKERBOARD_DATABASE_TYPE", "psql")
	t.Setenv("STICKERBOARD_WRITER_QUEUE_CAPACITY", "10")
	t.Setenv("STICKERBOARD_SERVER_REQUEST_TIMEOUT", "5s")

	cfg, err := Parse()

	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf(`expected "Port" to equal 8080, got %d`, cfg.Port)
	}

	if cfg.StoreType != StoreTypeDatabase {
		t.Errorf(`expected "StoreType" to equal "%s", got "%s"`, StoreTypeDatabase, cfg.StoreType)
	}

	if cfg.WriterQueueCapacity != 10 {
		t.Errorf(`expected "WriterQueueCapacity" to equal 10, got %d`, cfg.WriterQueueCapacity)
	}

	if cfg.ServerRequestTimeout != 5*time.Second {
		t.Errorf(`expected "ServerRequestTimeout" to equal 5s, got %s`, cfg.ServerRequestTimeout)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	unsetenv(t, "PORT")
	unsetenv(t, "STICKERBOARD_STORE_TYPE")
	unsetenv(t, "STICKERBOARD_DATA_FILE")
	unsetenv(t, "STICKERBOARD_DISABLE_IDEMPOTENCY_MIDDLEWARE")

	cfg, err := Parse()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3000 {
		t.Errorf(`expected "Port" to default to 3000, got %d`, cfg.Port)
	}

	if cfg.StoreType != StoreTypeFile || cfg.DataFile != "data.json" {
		t.Errorf(`expected file store at "data.json", got %s at "%s"`, cfg.StoreType, cfg.DataFile)
	}

	if !cfg.DisableIdempotencyMiddleware {
		t.Error(`expected "DisableIdempotencyMiddleware" to default to true`)
	}
}

func TestParseConfigEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STICKERBOARD_DATA_FILE=from-file.json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// godotenv never overrides variables that are already set
	unsetenv(t, "STICKERBOARD_DATA_FILE")

	cfg, err := ParseConfig(&Options{EnvFilePath: path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DataFile != "from-file.json" {
		t.Errorf(`expected "DataFile" to equal "from-file.json", got "%s"`, cfg.DataFile)
	}
}

func TestInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"store type", "STICKERBOARD_STORE_TYPE", "s3"},
		{"port", "PORT", "0"},
		{"queue capacity", "STICKERBOARD_WRITER_QUEUE_CAPACITY", "0"},
		{"write rate", "STICKERBOARD_MAX_WRITE_RATE", "-1"},
		{"idempotency store", "STICKERBOARD_IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE", "memcached"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(c.key, c.val)
			if _, err := Parse(); err == nil {
				t.Fatalf("expected an error for %s=%s", c.key, c.val)
			}
		})
	}

	t.Run("database type", func(t *testing.T) {
		t.Setenv("STICKERBOARD_STORE_TYPE", "database")
		t.Setenv("STICKERBOARD_DATABASE_TYPE", "oracle")
		if _, err := Parse(); err == nil {
			t.Fatal("expected an error")
		}
	})
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
