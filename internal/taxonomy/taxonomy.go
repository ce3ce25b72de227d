// Package taxonomy loads the keyword taxonomy used to score listing
// descriptions: category name -> keyword -> mastered flag.
package taxonomy

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "sjsage522/jobharvester/pkg/errors"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// Keyword is one taxonomy entry.
type Keyword struct {
	Name     string
	Mastered bool
}

// Category groups keywords under a name such as "technical".
type Category struct {
	Name     string
	Keywords []Keyword
}

// Taxonomy is read-only once loaded. Categories and keywords are sorted by name.
type Taxonomy struct {
	Categories []Category
}

// Load reads a taxonomy from a .yaml/.yml or .json5/.json file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfiguration("read keyword taxonomy", err)
	}

	raw := map[string]map[string]bool{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json5", ".json":
		err = json5.Unmarshal(data, &raw)
	default:
		return nil, apperrors.NewConfiguration("unsupported taxonomy format "+filepath.Ext(path), nil)
	}
	if err != nil {
		return nil, apperrors.NewConfiguration("parse keyword taxonomy", err)
	}

	return FromMap(raw), nil
}

// FromMap builds a taxonomy from its plain map form.
func FromMap(raw map[string]map[string]bool) *Taxonomy {
	t := &Taxonomy{Categories: make([]Category, 0, len(raw))}
	for name, keywords := range raw {
		category := Category{Name: name, Keywords: make([]Keyword, 0, len(keywords))}
		for kw, mastered := range keywords {
			category.Keywords = append(category.Keywords, Keyword{Name: kw, Mastered: mastered})
		}
		sort.Slice(category.Keywords, func(i, j int) bool {
			return category.Keywords[i].Name < category.Keywords[j].Name
		})
		t.Categories = append(t.Categories, category)
	}
	sort.Slice(t.Categories, func(i, j int) bool {
		return t.Categories[i].Name < t.Categories[j].Name
	})
	return t
}

// CategoryNames returns the category names in order. A nil taxonomy has none.
func (t *Taxonomy) CategoryNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}
