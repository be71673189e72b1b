package config

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats supported by Render.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes cfg to w in the requested format.
func Render(w io.Writer, cfg *StartupConfig, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}
