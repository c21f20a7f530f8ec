package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/taskpool/internal/executor"
	"github.com/aryankumar/taskpool/internal/util"
)

func TestManager_Load(t *testing.T) {
	tests := []struct {
		name             string
		configContent    string
		wantErr          bool
		wantWorkers      int
		wantThrottle     time.Duration
		wantMode         string
		wantShutdown     time.Duration
		wantOutputFormat string
	}{
		{
			name: "full config",
			configContent: `
pool:
  workers: 3
  throttle: 2s
  throttleMode: concurrent
  shutdownTimeout: 10s
output:
  format: json
  noColor: true
`,
			wantWorkers:      3,
			wantThrottle:     2 * time.Second,
			wantMode:         "concurrent",
			wantShutdown:     10 * time.Second,
			wantOutputFormat: "json",
		},
		{
			name: "partial config keeps defaults",
			configContent: `
pool:
  throttle: 250ms
`,
			wantWorkers:      0,
			wantThrottle:     250 * time.Millisecond,
			wantMode:         "serialized",
			wantShutdown:     DefaultShutdownTimeout,
			wantOutputFormat: DefaultOutputFormat,
		},
		{
			name:          "missing explicit file",
			configContent: "",
			wantErr:       true,
		},
		{
			name: "invalid values",
			configContent: `
pool:
  workers: -1
  throttleMode: sometimes
output:
  format: xml
`,
			wantErr: true,
		},
		{
			name:          "malformed yaml",
			configContent: "pool: [unclosed",
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, ".taskpool.yaml")

			if tt.configContent != "" {
				if err := os.WriteFile(configPath, []byte(tt.configContent), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}
			}

			manager := NewManager(configPath)
			cfg, err := manager.Load()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.Pool.Workers != tt.wantWorkers {
				t.Errorf("workers = %d, want %d", cfg.Pool.Workers, tt.wantWorkers)
			}
			if cfg.Pool.Throttle != tt.wantThrottle {
				t.Errorf("throttle = %v, want %v", cfg.Pool.Throttle, tt.wantThrottle)
			}
			if cfg.Pool.ThrottleMode != tt.wantMode {
				t.Errorf("throttleMode = %q, want %q", cfg.Pool.ThrottleMode, tt.wantMode)
			}
			if cfg.Pool.ShutdownTimeout != tt.wantShutdown {
				t.Errorf("shutdownTimeout = %v, want %v", cfg.Pool.ShutdownTimeout, tt.wantShutdown)
			}
			if cfg.Output.Format != tt.wantOutputFormat {
				t.Errorf("output.format = %q, want %q", cfg.Output.Format, tt.wantOutputFormat)
			}
			if manager.GetConfig() != cfg {
				t.Error("GetConfig should return the loaded config")
			}
		})
	}
}

func TestManager_Load_NoConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewManager("").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pool.Workers != 0 || cfg.Pool.Throttle != executor.DefaultThrottleDelay {
		t.Errorf("unexpected pool defaults %+v", cfg.Pool)
	}
	if cfg.Pool.ThrottleMode != "serialized" || cfg.Pool.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("unexpected pool defaults %+v", cfg.Pool)
	}
	if cfg.Output.Format != DefaultOutputFormat {
		t.Errorf("output.format = %q, want %q", cfg.Output.Format, DefaultOutputFormat)
	}
}

func TestManager_Load_MissingExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewManager(path).Load()
	if err == nil {
		t.Fatal("expected error for a missing --config file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestManager_Load_HomeDirectoryFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".taskpool")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("pool:\n  workers: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewManager("").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pool.Workers != 5 {
		t.Errorf("workers = %d, want 5", cfg.Pool.Workers)
	}
}

func TestManager_Load_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKPOOL_POOL_WORKERS", "7")
	t.Setenv("TASKPOOL_POOL_THROTTLEMODE", "concurrent")

	cfg, err := NewManager("").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pool.Workers != 7 {
		t.Errorf("workers = %d, want 7", cfg.Pool.Workers)
	}
	if cfg.Pool.ThrottleMode != "concurrent" {
		t.Errorf("throttleMode = %q, want concurrent", cfg.Pool.ThrottleMode)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Pool: PoolConfig{
			Workers:         2,
			Throttle:        time.Second,
			ThrottleMode:    "serialized",
			ShutdownTimeout: time.Second,
		},
		Output: OutputConfig{Format: "yaml"},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	invalid := Config{
		Pool: PoolConfig{
			Workers:      -3,
			Throttle:     -time.Second,
			ThrottleMode: "random",
		},
		Output: OutputConfig{Format: "csv"},
	}

	err := invalid.Validate()
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	var multi *util.MultiError
	if !errors.As(err, &multi) || len(multi.Errors) != 5 {
		t.Fatalf("expected 5 validation errors, got %v", err)
	}

	for _, field := range []string{"pool.workers", "pool.throttle", "pool.throttleMode", "pool.shutdownTimeout", "output.format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention %s", field)
		}
	}
}

func TestConfig_PoolOptions(t *testing.T) {
	cfg := Config{Pool: PoolConfig{Throttle: 5 * time.Millisecond, ThrottleMode: "concurrent"}}

	opts, err := cfg.PoolOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool := executor.NewPool(1, nil, opts...)
	defer pool.Shutdown(context.Background())

	if pool.Throttle().Delay() != 5*time.Millisecond || pool.Throttle().Mode() != executor.ThrottleConcurrent {
		t.Errorf("options not applied: delay=%v mode=%s", pool.Throttle().Delay(), pool.Throttle().Mode())
	}

	cfg.Pool.ThrottleMode = "bogus"
	if _, err := cfg.PoolOptions(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestConfig_EffectiveWorkers(t *testing.T) {
	if got := (&Config{Pool: PoolConfig{Workers: 4}}).EffectiveWorkers(); got != 4 {
		t.Errorf("EffectiveWorkers() = %d, want 4", got)
	}
	if got := (&Config{}).EffectiveWorkers(); got != executor.DefaultWorkers() {
		t.Errorf("EffectiveWorkers() = %d, want %d", got, executor.DefaultWorkers())
	}
}

func TestManager_SaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	manager := NewManager("")
	if _, err := manager.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	manager.GetConfig().Pool = PoolConfig{
		Workers:         2,
		Throttle:        2 * time.Second,
		ThrottleMode:    "concurrent",
		ShutdownTimeout: 45 * time.Second,
	}

	written, err := manager.Save(configPath)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if written != configPath {
		t.Errorf("wrote %q, want %q", written, configPath)
	}

	reloaded, err := NewManager(configPath).Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if reloaded.Pool.Workers != 2 || reloaded.Pool.Throttle != 2*time.Second ||
		reloaded.Pool.ThrottleMode != "concurrent" || reloaded.Pool.ShutdownTimeout != 45*time.Second {
		t.Errorf("unexpected reloaded pool config: %+v", reloaded.Pool)
	}
}

func TestManager_SaveDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	manager := NewManager("")
	if _, err := manager.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	written, err := manager.Save("")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	want := filepath.Join(home, ".taskpool", "config.yaml")
	if written != want {
		t.Errorf("wrote %q, want %q", written, want)
	}

	if _, err := NewManager("").Load(); err != nil {
		t.Errorf("saved file should load from the home directory: %v", err)
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := Config{
		Pool: PoolConfig{
			Workers:         4,
			Throttle:        100 * time.Millisecond,
			ThrottleMode:    "serialized",
			ShutdownTimeout: 30 * time.Second,
		},
		Output: OutputConfig{Format: "json"},
	}

	settings := cfg.Settings()
	if settings["pool.workers"] != 4 || settings["pool.throttle"] != "100ms" || settings["pool.shutdownTimeout"] != "30s" {
		t.Errorf("unexpected settings %v", settings)
	}
	if settings["output.format"] != "json" || settings["output.noColor"] != false {
		t.Errorf("unexpected output settings %v", settings)
	}
}
