package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

type gradeEntry struct {
	Grade   string              `yaml:"grade"`
	Streams map[string][]string `yaml:"streams"`
}

// Taxonomy is the curated grade and subject catalogue shown to buyers before
// any shop has listed books.
type Taxonomy struct {
	Grades   []gradeEntry `yaml:"grades"`
	Defaults struct {
		Grades   []string `yaml:"grades"`
		Subjects []string `yaml:"subjects"`
	} `yaml:"defaults"`
}

func LoadTaxonomy() (*Taxonomy, error) {
	return ParseTaxonomy(taxonomyYAML)
}

func ParseTaxonomy(raw []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return &t, nil
}

// GradeNames lists the curated grades in file order.
func (t *Taxonomy) GradeNames() []string {
	out := make([]string, 0, len(t.Grades))
	for _, g := range t.Grades {
		out = append(out, g.Grade)
	}
	return out
}

// SubjectsFor returns the union of every stream's subjects for grade, in
// first-seen order, or nil when the grade is not curated.
func (t *Taxonomy) SubjectsFor(grade string) []string {
	for _, g := range t.Grades {
		if g.Grade != grade {
			continue
		}
		streams := make([]string, 0, len(g.Streams))
		for name := range g.Streams {
			streams = append(streams, name)
		}
		sort.Strings(streams)

		seen := map[string]bool{}
		var out []string
		for _, name := range streams {
			for _, s := range g.Streams[name] {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}
