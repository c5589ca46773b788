package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"kitportal/internal/kit/domain"
	"kitportal/internal/kit/transport"
)

type options struct {
	path      string
	profileID string
	format    string
}

type inspection struct {
	ProfileID string                                   `json:"profileId,omitempty" yaml:"profileId,omitempty"`
	Kits      []transport.KitView                      `json:"kits" yaml:"kits"`
	Defaults  map[domain.ProductLine]transport.KitView `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

var defaultLines = []domain.ProductLine{domain.LineDNA, domain.LineAntibody, domain.LineHeartHealth}

func run(opts options, stdin io.Reader, stdout io.Writer) error {
	kits, err := readKits(opts.path, stdin)
	if err != nil {
		return err
	}

	out := inspection{ProfileID: opts.profileID, Kits: make([]transport.KitView, 0, len(kits))}
	for _, k := range kits {
		out.Kits = append(out.Kits, transport.ViewOf(k))
	}
	if opts.profileID != "" {
		out.Defaults = make(map[domain.ProductLine]transport.KitView)
		for _, line := range defaultLines {
			k, ok := domain.FindLatestKit(kits, opts.profileID, domain.DefinitionsFor(line))
			if !ok {
				continue
			}
			if v, ok := domain.NewView(k, line); ok {
				out.Defaults[line] = transport.NewKitView(v)
			}
		}
	}

	switch opts.format {
	case "yaml", "":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func readKits(path string, stdin io.Reader) ([]domain.Kit, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read kits: %w", err)
	}

	var kits []domain.Kit
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &kits)
	default:
		err = json.Unmarshal(data, &kits)
	}
	if err != nil {
		return nil, fmt.Errorf("decode kits: %w", err)
	}
	return kits, nil
}
