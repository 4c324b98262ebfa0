package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

func createValidConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:            "Test Config",
		Description:     "Test configuration",
		Cols:            3,
		Rows:            4,
		TapDropChance:   0.3,
		BuildDropChance: 0.5,
		InitialArmed:    &engine.Position{Col: 1, Row: 1},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	t.Helper()

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	var data []byte
	var err error
	if ext := filepath.Ext(filename); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Test Config" {
			t.Errorf("Expected classic preset as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in board", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without presets, got: %v", err)
		}

		def := manager.GetDefault()
		if def == nil || def.Cols != engine.DefaultCols || def.Rows != engine.DefaultRows {
			t.Errorf("Expected built-in default, got %+v", def)
		}
	})

	t.Run("first preset when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		a := createValidConfig()
		a.Name = "Alpha"
		b := createValidConfig()
		b.Name = "Beta"
		writeConfigFile(t, dir, "beta", b)
		writeConfigFile(t, dir, "alpha.yaml", a)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Alpha" {
			t.Errorf("Expected Alpha as default, got %q", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	jsonConfig := createValidConfig()
	jsonConfig.Name = "Json Board"
	writeConfigFile(t, dir, "json_board", jsonConfig)

	yamlConfig := createValidConfig()
	yamlConfig.Name = "Yaml Board"
	yamlConfig.BuildMode = engine.BuildDeferred
	writeConfigFile(t, dir, "yaml_board.yml", yamlConfig)

	invalid := createValidConfig()
	invalid.Cols = 0
	writeConfigFile(t, dir, "broken", invalid)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json by id", func(t *testing.T) {
		config, err := manager.LoadConfig("json_board")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Json Board" {
			t.Errorf("Expected 'Json Board', got %q", config.Name)
		}
	})

	t.Run("yaml by id", func(t *testing.T) {
		config, err := manager.LoadConfig("yaml_board")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Yaml Board" || config.BuildMode != engine.BuildDeferred {
			t.Errorf("Unexpected config: %+v", config)
		}
	})

	t.Run("by file name", func(t *testing.T) {
		config, err := manager.LoadConfig("json_board.json")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Json Board" {
			t.Errorf("Expected 'Json Board', got %q", config.Name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := manager.LoadConfig("missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid preset", func(t *testing.T) {
		_, err := manager.LoadConfig("broken")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"classic", "wide.yaml", "tall.yml"} {
		config := createValidConfig()
		config.Name = name
		writeConfigFile(t, dir, name, config)
	}

	invalid := createValidConfig()
	invalid.TapDropChance = 2
	writeConfigFile(t, dir, "broken", invalid)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}

	expected := []string{"classic", "tall", "wide"}
	if len(configs) != len(expected) {
		t.Fatalf("Expected %d configs, got %d", len(expected), len(configs))
	}
	for i, id := range expected {
		if configs[i].ConfigID != id {
			t.Errorf("Config %d: expected ID %q, got %q", i, id, configs[i].ConfigID)
		}
		if configs[i].Cols != 3 || configs[i].Rows != 4 {
			t.Errorf("Config %s: expected 3x4, got %dx%d", id, configs[i].Cols, configs[i].Rows)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}

		loaded, err := engine.LoadBoardConfig(filepath.Join(dir, "saved.json"))
		if err != nil {
			t.Fatalf("Failed to read back: %v", err)
		}
		if loaded.Name != "Saved" || *loaded.InitialArmed != *config.InitialArmed {
			t.Errorf("Unexpected saved content: %+v", loaded)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved Yaml"
		if err := manager.SaveConfig("saved_yaml.yaml", config); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		loaded, err := engine.LoadBoardConfig(filepath.Join(dir, "saved_yaml.yaml"))
		if err != nil {
			t.Fatalf("Failed to read back: %v", err)
		}
		if loaded.Name != "Saved Yaml" {
			t.Errorf("Expected 'Saved Yaml', got %q", loaded.Name)
		}

		cached, err := manager.LoadConfig("saved_yaml")
		if err != nil || cached != config {
			t.Errorf("Expected saved preset to be cached, got %v (%v)", cached, err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		config := createValidConfig()
		config.Name = ""
		err := manager.SaveConfig("nameless", config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "nameless.json")); statErr == nil {
			t.Error("Expected invalid preset not to be written")
		}
	})
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig()
	writeConfigFile(t, dir, "board", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	first, err := manager.LoadConfig("board")
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	config.Cols = 6
	writeConfigFile(t, dir, "board", config)

	// cached until reloaded
	again, _ := manager.LoadConfig("board")
	if again != first || again.Cols != 3 {
		t.Error("Expected cached preset before reload")
	}

	if err := manager.ReloadConfig("board"); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	reloaded, _ := manager.LoadConfig("board")
	if reloaded.Cols != 6 {
		t.Errorf("Expected reloaded preset with 6 cols, got %d", reloaded.Cols)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	updated := createValidConfig()
	updated.Name = "Updated Classic"
	writeConfigFile(t, dir, "classic", updated)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if manager.GetDefault().Name != "Updated Classic" {
		t.Errorf("Expected refreshed default, got %q", manager.GetDefault().Name)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	other := createValidConfig()
	other.Name = "Other"
	writeConfigFile(t, dir, "other", other)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("other"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().Name != "Other" {
		t.Errorf("Expected 'Other', got %q", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}
