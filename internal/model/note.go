package model

import "context"

// InboxItem is one markdown note found in the inbox. Path is the identity.
type InboxItem struct {
	Path    string // slash-normalized path, as sent to the provider
	Content string // full text
}

// Category is one of the fixed destination classes for a note.
type Category string

const (
	CategoryProjects  Category = "projects"
	CategoryAreas     Category = "areas"
	CategoryResources Category = "resources"
	CategoryArchives  Category = "archives"
	CategoryJobs      Category = "jobs"
)

// Categories lists every valid category in prompt order.
var Categories = []Category{
	CategoryProjects,
	CategoryAreas,
	CategoryResources,
	CategoryArchives,
	CategoryJobs,
}

// categoryRoots maps each category to its root directory under the vault.
var categoryRoots = map[Category]string{
	CategoryProjects:  "01_Projects",
	CategoryAreas:     "02_Areas",
	CategoryResources: "03_Resources",
	CategoryArchives:  "04_Archive",
	CategoryJobs:      "02_Jobs",
}

// ParseCategory reports whether s names a valid category. Matching is exact.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryRoots[c]
	return c, ok
}

// Root returns the vault-relative root directory for c, or "" if c is invalid.
func (c Category) Root() string {
	return categoryRoots[c]
}

// Classification is the provider reply for one inbox batch.
type Classification struct {
	Items []ClassifiedItem `json:"items"`
}

// ClassifiedItem is the provider's verdict for a single note, keyed by path.
type ClassifiedItem struct {
	Path     string `json:"path"`
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Summary  string `json:"summary"`
}

// JSONCaller sends one prompt to an LLM and returns the reply parsed as JSON.
type JSONCaller interface {
	Call(ctx context.Context, prompt string) ([]byte, error)
}
