// Package opening loads the practiced opening lines from an embedded
// default catalog plus an optional override directory.
package opening

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed openings.yaml
var defaultFiles embed.FS

// Variation is one fixed line of an opening to be memorized.
type Variation struct {
	Name string `yaml:"name"`
	PGN  string `yaml:"pgn"`
}

// Opening owns an ordered list of variations practiced from one side.
type Opening struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Side       string      `yaml:"side"`
	Level      string      `yaml:"level"`
	Variations []Variation `yaml:"variations"`
}

type catalogFile struct {
	Openings []Opening `yaml:"openings"`
}

// Catalog is the loaded set of openings, ordered as declared.
type Catalog struct {
	openings []Opening
	byID     map[string]int
}

// New loads the embedded default openings and then applies overrides
// from dir if provided. An override opening with a known id replaces
// the embedded one wholesale; unknown ids are appended.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int)}

	raw, err := fs.ReadFile(defaultFiles, "openings.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded openings: %w", err)
	}
	if err := c.applyYAML(raw, "openings.yaml"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read opening dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.applyYAML(b, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte, source string) error {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("parse %s: %w", source, err)
	}
	for _, o := range file.Openings {
		if err := validateOpening(o); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		if idx, ok := c.byID[o.ID]; ok {
			c.openings[idx] = o
			continue
		}
		c.byID[o.ID] = len(c.openings)
		c.openings = append(c.openings, o)
	}
	return nil
}

func validateOpening(o Opening) error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("opening %q has no id", o.Name)
	}
	if o.Side != "white" && o.Side != "black" {
		return fmt.Errorf("opening %s: side must be white or black, got %q", o.ID, o.Side)
	}
	if len(o.Variations) == 0 {
		return fmt.Errorf("opening %s has no variations", o.ID)
	}
	seen := make(map[string]bool, len(o.Variations))
	for _, v := range o.Variations {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("opening %s: variation with empty name", o.ID)
		}
		if strings.TrimSpace(v.PGN) == "" {
			return fmt.Errorf("opening %s: variation %q has no pgn", o.ID, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("opening %s: duplicate variation name %q", o.ID, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// ByID returns the opening with the given id.
func (c *Catalog) ByID(id string) (Opening, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Opening{}, false
	}
	return c.openings[idx], true
}

// All returns the openings in declaration order.
func (c *Catalog) All() []Opening {
	out := make([]Opening, len(c.openings))
	copy(out, c.openings)
	return out
}

// IDs returns the known opening ids, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
