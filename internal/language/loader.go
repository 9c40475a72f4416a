package language

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OverrideEntry is one user-supplied language definition. Entries merge
// into the built-in tables and win on conflict.
type OverrideEntry struct {
	Name         string   `yaml:"name"`
	Family       string   `yaml:"family"` // brace, indent, or plain
	Extensions   []string `yaml:"extensions"`
	Filenames    []string `yaml:"filenames"`
	Interpreters []string `yaml:"interpreters"`
}

// OverrideFile is the YAML document shape for language overrides.
type OverrideFile struct {
	Languages []OverrideEntry `yaml:"languages"`
}

// LoadOverrides reads a YAML override file and merges its entries into
// the registry. A missing path is not an error; the registry is simply
// left with the built-in tables.
func (r *Registry) LoadOverrides(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read language overrides: %w", err)
	}

	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse language overrides: %w", err)
	}

	for _, entry := range file.Languages {
		if entry.Name == "" {
			return fmt.Errorf("language override entry without a name")
		}
		family, err := parseFamily(entry.Family)
		if err != nil {
			return fmt.Errorf("language %q: %w", entry.Name, err)
		}
		lang := Language{Name: entry.Name, Family: family}
		for _, ext := range entry.Extensions {
			r.byExtension[strings.ToLower(strings.TrimPrefix(ext, "."))] = lang
		}
		for _, name := range entry.Filenames {
			r.byName[name] = lang
		}
		for _, interp := range entry.Interpreters {
			r.byInterpreter[interp] = lang
		}
	}

	return nil
}

func parseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyBrace, FamilyIndent, FamilyPlain:
		return Family(s), nil
	case "":
		return FamilyPlain, nil
	default:
		return "", fmt.Errorf("unknown family %q", s)
	}
}
