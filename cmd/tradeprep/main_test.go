package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/tradeprep/internal/config"
	"github.com/hyperjump/tradeprep/internal/pipeline"
)

const sampleDocument = `SEA WAYBILL
ABN: 12 345 678 901
Gross Weight: 237 KGS
Measurement: 0.92 CBM`

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after document are moved first",
			args:     []string{"bl.pdf", "-output", "json"},
			expected: []string{"-output", "json", "bl.pdf"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "bl.pdf"},
			expected: []string{"-output", "json", "bl.pdf"},
		},
		{
			name:     "document only returns unchanged",
			args:     []string{"bl.pdf"},
			expected: []string{"bl.pdf"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "stdin marker is not a flag",
			args:     []string{"-", "--output", "json"},
			expected: []string{"--output", "json", "-"},
		},
		{
			name:     "stdin marker alone",
			args:     []string{"-"},
			expected: []string{"-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	got, err := readDocument("-", strings.NewReader("from stdin"))
	if err != nil || got != "from stdin" {
		t.Errorf("readDocument(-) = %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "scan.ocr")
	if err := os.WriteFile(path, []byte("from file"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err = readDocument(path, nil)
	if err != nil || got != "from file" {
		t.Errorf("readDocument(file) = %q, %v", got, err)
	}

	if _, err := readDocument(filepath.Join(t.TempDir(), "missing.pdf"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunPreprocess_JSONFromStdin(t *testing.T) {
	var out bytes.Buffer
	err := runPreprocess([]string{"-", "-output", "json", "-config", writeConfig(t, "")}, strings.NewReader(sampleDocument), &out)
	if err != nil {
		t.Fatalf("runPreprocess: %v", err)
	}
	var decoded struct {
		Source string `json:"source"`
		Result struct {
			StructuredData map[string]struct {
				CleanedValue string `json:"cleaned_value"`
			} `json:"structured_data"`
			RequiresLLM bool `json:"requires_llm"`
		} `json:"result"`
		LLMPrompt string `json:"llm_prompt"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if decoded.Source != "-" {
		t.Errorf("source = %q", decoded.Source)
	}
	if decoded.Result.StructuredData["gross_weight"].CleanedValue != "237" {
		t.Errorf("gross_weight = %+v", decoded.Result.StructuredData)
	}
	if !decoded.Result.RequiresLLM || decoded.LLMPrompt == "" {
		t.Error("two detected fields should still require the model")
	}
}

func TestRunPreprocess_disabledDetection(t *testing.T) {
	var out bytes.Buffer
	err := runPreprocess([]string{"-no-field-detection", "-config", writeConfig(t, ""), "-"}, strings.NewReader(sampleDocument), &out)
	if err != nil {
		t.Fatalf("runPreprocess: %v", err)
	}
	if !strings.Contains(out.String(), "Detected fields (0):") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunPreprocess_badArgs(t *testing.T) {
	var out bytes.Buffer
	if err := runPreprocess(nil, strings.NewReader(""), &out); err == nil {
		t.Error("expected error without a document argument")
	}
	if err := runPreprocess([]string{"-output", "xml", "-"}, strings.NewReader(""), &out); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestRunPreprocess_invalidConfig(t *testing.T) {
	path := writeConfig(t, "preprocess:\n  min_line_length: 50\n  max_line_length: 10\n")
	var out bytes.Buffer
	if err := runPreprocess([]string{"-config", path, "-"}, strings.NewReader(sampleDocument), &out); err == nil {
		t.Error("expected config validation error")
	}
}

func TestRunDeclaration_text(t *testing.T) {
	var out bytes.Buffer
	path := writeConfig(t, "")
	if err := runDeclaration([]string{"-config", path, "-output", "text", "-"}, strings.NewReader(sampleDocument), &out); err != nil {
		t.Fatalf("runDeclaration: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"section_a_owner_details.owner_id: 12345678901\n",
		"section_b_transport_details.delivery_address.country: AUSTRALIA\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunDeclaration_inputTooLarge(t *testing.T) {
	path := writeConfig(t, "preprocess:\n  max_input_bytes: 16\n")
	var out bytes.Buffer
	err := runDeclaration([]string{"-config", path, "-"}, strings.NewReader(sampleDocument), &out)
	if !errors.Is(err, pipeline.ErrInputTooLarge) {
		t.Fatalf("runDeclaration error = %v, want ErrInputTooLarge", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", out.String())
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")
	var out bytes.Buffer
	if err := runInit([]string{"-config", path}, &out); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output should name the file: %q", out.String())
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Preprocess, config.DefaultPreprocess()) {
		t.Errorf("preprocess = %+v, want defaults", cfg.Preprocess)
	}

	if err := runInit([]string{"-config", path}, &out); err == nil {
		t.Error("expected error when the config already exists")
	}
	if err := runInit([]string{"-config", path, "-force"}, &out); err != nil {
		t.Errorf("runInit -force: %v", err)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_defaultsWhenNothingFound(t *testing.T) {
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(defaultConfigPath); statErr == nil {
		t.Skip("a system config exists at the default path")
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty", resolved)
	}
	if cfg.Preprocess.MaxLLMTokens != 1500 || cfg.Server.Port != 8080 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_explicitMissing(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	for _, cmd := range []string{"preprocess", "declaration", "server", "watch", "init", "version", "help"} {
		if !strings.Contains(buf.String(), "tradeprep "+cmd) {
			t.Errorf("usage missing %q", cmd)
		}
	}
}

// writeConfig writes a config file so tests do not depend on the working directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
