package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validPreset = `{
	"name": "Test Preset",
	"description": "Test configuration",
	"reveal_killed": true,
	"first_turn": "you",
	"generation_rounds": 1000,
	"messages": {
		"welcome": "Welcome!",
		"plane_placed": "Plane %d placed",
		"hit": "%s: hit!",
		"miss": "%s: miss",
		"kill": "%s: plane down!",
		"retry": "Try again",
		"you_won": "You won!",
		"opponent_won": "You lost!"
	}
}`

func writePreset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writePreset(t, t.TempDir(), "test.json", validPreset)

	result := validateConfig(path, 5)
	if !result.Valid {
		t.Errorf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}

	found := false
	for _, info := range result.Info {
		if strings.Contains(info, "5 opponent fleets generated") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected fleet generation info, got %v", result.Info)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed json",
			content: `{"name": "broken"`,
			wantErr: "Invalid JSON",
		},
		{
			name:    "unknown key",
			content: strings.Replace(validPreset, `"reveal_killed"`, `"reveal_kills"`, 1),
			wantErr: "unknown field",
		},
		{
			name:    "missing name",
			content: strings.Replace(validPreset, `"Test Preset"`, `""`, 1),
			wantErr: "name is required",
		},
		{
			name:    "bad first turn",
			content: strings.Replace(validPreset, `"you"`, `"me"`, 1),
			wantErr: "first_turn",
		},
		{
			name:    "hit without target",
			content: strings.Replace(validPreset, `"%s: hit!"`, `"hit!"`, 1),
			wantErr: "messages.hit",
		},
		{
			name:    "kill with extra verb",
			content: strings.Replace(validPreset, `"%s: plane down!"`, `"%s: plane %d down!"`, 1),
			wantErr: "messages.kill must contain exactly one",
		},
		{
			name:    "rounds out of range",
			content: strings.Replace(validPreset, `1000`, `0`, 1),
			wantErr: "generation_rounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePreset(t, t.TempDir(), "bad.json", tt.content)

			result := validateConfig(path, 1)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !strings.Contains(strings.Join(result.Errors, "; "), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidateConfig_TooFewRounds(t *testing.T) {
	path := writePreset(t, t.TempDir(), "tight.json", strings.Replace(validPreset, `1000`, `1`, 1))

	result := validateConfig(path, 50)
	if result.Valid {
		t.Skip("every sampled fleet fit in a single round")
	}
	if !strings.Contains(result.Errors[0], "too low") {
		t.Errorf("Expected generation_rounds error, got %v", result.Errors)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "nope.json"), 1)
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected error: %v", result.Errors)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "good.json", validPreset)

	var out bytes.Buffer
	ok, err := validateDir(dir, 2, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("Expected all presets valid:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "✅ All configurations are valid!") {
		t.Errorf("Missing summary in output:\n%s", out.String())
	}

	writePreset(t, dir, "bad.json", `{}`)
	out.Reset()
	ok, err = validateDir(dir, 2, &out)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected a failing preset to fail the run")
	}
	for _, want := range []string{"bad.json", "❌ INVALID", "good.json", "✅ VALID", "❌ Some configurations have errors"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestValidateDir_Empty(t *testing.T) {
	if _, err := validateDir(t.TempDir(), 1, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for a directory with no presets")
	}
}

func TestShippedPresets(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	if err := cmd.Run(context.Background(), []string{"validate", "--dir", "../configs", "--samples", "10"}); err != nil {
		t.Fatalf("Shipped presets failed validation: %v\n%s", err, out.String())
	}
	for _, name := range []string{"classic.json", "duel.json", "hidden.json"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("Expected %s in report", name)
		}
	}
}
