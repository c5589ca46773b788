package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const kitsYAML = `
- kitId: k-old
  barcode: BCOLD0001
  profile: p1
  status: ready
  test:
    - testId: t1
      name: global-health
      status: ready
      history: []
  history:
    - status: ready
      datetime: 2024-01-01T08:00:00Z
- kitId: k-new
  barcode: BCNEW0001
  profile: p1
  status: lab
  test:
    - testId: t2
      name: global-vital
      status: lab
      history: []
  history:
    - status: lab
      datetime: 2024-03-01T08:00:00Z
- kitId: k-other
  barcode: BCOTHER01
  profile: p2
  status: lab
  test:
    - testId: t3
      name: not-a-product
      status: lab
      history: []
  history: []
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunYAML(t *testing.T) {
	path := writeFile(t, "kits.yaml", kitsYAML)

	var out bytes.Buffer
	if err := run(options{path: path, profileID: "p1", format: "yaml"}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got struct {
		Kits []struct {
			KitID string `yaml:"kitId"`
			Line  string `yaml:"line"`
		} `yaml:"kits"`
		Defaults map[string]struct {
			KitID string `yaml:"kitId"`
		} `yaml:"defaults"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(got.Kits) != 3 {
		t.Fatalf("expected 3 kits, got %d", len(got.Kits))
	}
	if got.Kits[0].Line != "dna" || got.Kits[2].Line != "" {
		t.Fatalf("unexpected lines %+v", got.Kits)
	}
	if dna, ok := got.Defaults["dna"]; !ok || dna.KitID != "k-new" {
		t.Fatalf("expected k-new as default dna kit, got %+v", got.Defaults)
	}
	if _, ok := got.Defaults["antibody"]; ok {
		t.Fatalf("expected no antibody default")
	}
}

func TestRunJSONFromStdin(t *testing.T) {
	in := `[{"kitId":"k1","barcode":"BC000001","profile":"p1","status":"lab","test":[],"history":[]}]`

	var out bytes.Buffer
	if err := run(options{path: "-", format: "json"}, strings.NewReader(in), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got struct {
		Kits     []map[string]interface{} `json:"kits"`
		Defaults map[string]interface{}   `json:"defaults"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got.Kits) != 1 || got.Kits[0]["kitId"] != "k1" {
		t.Fatalf("unexpected kits %+v", got.Kits)
	}
	if got.Defaults != nil {
		t.Fatalf("expected no defaults without a profile")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{name: "missing file", opts: options{path: filepath.Join(t.TempDir(), "nope.json")}},
		{name: "bad yaml", opts: options{path: writeFile(t, "bad.yml", "kitId: [")}},
		{name: "unknown format", opts: options{path: writeFile(t, "ok.json", "[]"), format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.opts, nil, &bytes.Buffer{}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
