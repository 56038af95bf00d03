// Package report renders snapshots, change sets and validation results.
// Every renderer is a pure function of its input.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alpkeskin/gotoon"
	"gopkg.in/yaml.v3"
)

// Format selects a machine readable encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatToon Format = "toon"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, toon or yaml
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatToon, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format: %s (available: text, json, toon, yaml)", s)
}

// Encode writes v in a machine readable format. FormatText is rejected;
// callers pick a text renderer instead.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatToon:
		out, err := gotoon.Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q has no encoder", f)
}
