// Package templates exposes the document templates packaged with the binary.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/crucible/internal/model"
)

//go:embed files/*.md
var templateFiles embed.FS

// Packaged template names.
const (
	Resume      = "resume-template.md"
	CoverLetter = "cover-letter-template.md"
)

const frontMatterDelimiter = "---"

// Template is a packaged template with its front-matter decoded.
type Template struct {
	Name string
	Meta Meta
	Raw  string // full text, front-matter included
}

// Meta is the YAML front-matter at the top of every template.
type Meta struct {
	Template string `yaml:"template"`
	Version  int    `yaml:"version"`
}

// Read returns the full text of the named template. A name that is not
// packaged yields an error wrapping model.ErrNotFound.
func Read(name string) (string, error) {
	data, err := templateFiles.ReadFile("files/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: template %s", model.ErrNotFound, name)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(data), nil
}

// Load reads the named template and decodes its front-matter.
func Load(name string) (*Template, error) {
	raw, err := Read(name)
	if err != nil {
		return nil, err
	}
	meta, err := parseFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return &Template{Name: name, Meta: meta, Raw: raw}, nil
}

func parseFrontMatter(s string) (Meta, error) {
	var meta Meta
	s = strings.TrimLeft(s, "\ufeff \t\r\n")
	if !strings.HasPrefix(s, frontMatterDelimiter) {
		return meta, fmt.Errorf("missing front-matter delimiter")
	}
	rest := s[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx == -1 {
		return meta, fmt.Errorf("unclosed front-matter block")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return meta, fmt.Errorf("front-matter parse error: %w", err)
	}
	return meta, nil
}
