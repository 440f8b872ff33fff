// Command validate checks the game presets in a configs directory. For each
// *.json file it checks:
//   - JSON structure, rejecting unknown keys
//   - the rules enforced when a preset is loaded, including message verbs
//   - that generation_rounds is enough to build opponent fleets reliably
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleplanes/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset. samples opponent
// fleets are generated with a fixed seed to check generation_rounds.
func validateConfig(filePath string, samples int) ValidationResult {
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

	config, err := engine.ParseGameConfig(data, true)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			result.fail("%v", err)
		} else {
			result.fail("Invalid JSON: %v", err)
		}
		return result
	}
	result.Info = append(result.Info,
		fmt.Sprintf("✓ %s: %s", config.Name, config.Description),
		fmt.Sprintf("✓ first turn: %s, reveal killed planes: %t", config.FirstTurn, config.RevealKilled),
	)

	failures := 0
	rng := engine.NewSeededRand(1)
	for i := 0; i < samples; i++ {
		if _, _, err := engine.NewMatch(config, rng); err != nil {
			if !errors.Is(err, engine.ErrBoardGeneration) {
				result.fail("Failed to start a match: %v", err)
				return result
			}
			failures++
		}
	}
	if failures > 0 {
		result.fail("generation_rounds %d too low: %d of %d opponent fleets failed", config.GenerationRounds, failures, samples)
	} else if samples > 0 {
		result.Info = append(result.Info, fmt.Sprintf("✓ %d opponent fleets generated with %d rounds", samples, config.GenerationRounds))
	}

	return result
}

// validateDir validates every *.json file in dir, writing a report to out.
// It reports whether all presets are valid.
func validateDir(dir string, samples int, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no presets found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, samples)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate the game presets in a configs directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "../configs", Usage: "configs directory", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "samples", Value: 20, Usage: "opponent fleets to generate per preset"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.String("dir"), cmd.Int("samples"), cmd.Root().Writer)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("some presets are invalid")
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
