// Command validate checks board preset files (JSON or YAML) in a directory.
// It checks:
//   - File structure and unknown keys (usually typos)
//   - Required fields, dimensions and drop chances
//   - The initial armed tile lies inside the board
//   - Presets that can never change or never gain tiles
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
)

// knownKeys lists every top-level preset key
var knownKeys = map[string]bool{
	"name":              true,
	"description":       true,
	"cols":              true,
	"rows":              true,
	"tap_drop_chance":   true,
	"build_drop_chance": true,
	"initial_armed":     true,
	"build_mode":        true,
	"seed":              true,
}

// ValidationResult captures the outcome of validating a single file.
// Errors make the preset invalid. Notes are informational.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	// YAML is a superset of JSON, so one decoder finds stray keys in both
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		result.fail("Invalid syntax: %v", err)
		return result
	}
	var unknown []string
	for key := range raw {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.fail("Unknown key %q", key)
	}

	config, err := engine.ParseBoardConfig(filePath, data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if err := engine.ValidateBoardConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	result.note("✓ Board: %dx%d (%d tiles)", config.Cols, config.Rows, config.Cols*config.Rows)

	mode := config.BuildMode
	if mode == "" {
		mode = engine.BuildInterleaved
	}
	result.note("✓ Build mode: %s", mode)

	if config.InitialArmed == nil {
		result.note("⚠ No initial armed tile: taps can never change this board")
	} else {
		result.note("✓ Initial armed tile: (%d,%d)", config.InitialArmed.Col, config.InitialArmed.Row)
	}

	if config.TapDropChance == 0 && config.BuildDropChance == 0 {
		result.note("⚠ Both drop chances are 0: no tile will ever be filled")
	}

	if config.Seed != 0 {
		result.note("✓ Fixed seed %d: every board starts the same", config.Seed)
	}

	return result
}

// presetFiles lists the preset files in dir, sorted by name
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// report validates every preset in dir and prints the results. It returns
// false if any preset is invalid.
func report(w io.Writer, dir string) (bool, error) {
	files, err := presetFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no preset files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Notes {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	app := &cli.Command{
		Name:      "validate",
		Usage:     "Validate board presets",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "configs"
			}
			ok, err := report(os.Stdout, dir)
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
