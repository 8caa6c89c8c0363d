// Package vault owns the on-disk layout of a notes vault and every file
// operation the classifier and generator perform on it.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amishk599/crucible/internal/model"
)

// Vault-relative directory names.
const (
	InboxDir     = "00_Inbox"
	FailedDir    = "_failed"
	GeneratedDir = "Generated"
	IndexName    = "Index.md"
)

// RequiredDirs is every directory a fresh vault gets, relative to its root.
var RequiredDirs = []string{
	"00_Inbox",
	"00_Inbox/_failed",
	"01_Projects",
	"02_Areas",
	"02_Jobs",
	"02_Jobs/Generated",
	"03_Resources",
	"04_Archive",
}

// Layout resolves vault paths from a root directory.
type Layout struct {
	Root string
}

// New returns the layout rooted at root.
func New(root string) Layout {
	return Layout{Root: root}
}

// Inbox is the folder scanned for unclassified notes.
func (l Layout) Inbox() string {
	return filepath.Join(l.Root, InboxDir)
}

// Failed is the quarantine folder inside the inbox.
func (l Layout) Failed() string {
	return filepath.Join(l.Inbox(), FailedDir)
}

// TopicDir is the destination folder for a category and sanitized topic.
func (l Layout) TopicDir(c model.Category, topic string) string {
	return filepath.Join(l.Root, c.Root(), topic)
}

// Generated is the output folder for job application drafts.
func (l Layout) Generated() string {
	return filepath.Join(l.Root, model.CategoryJobs.Root(), GeneratedDir)
}

// InitResult reports what Init did for one required directory.
type InitResult struct {
	Dir     string
	Created bool
}

// Init creates every directory in RequiredDirs that does not exist yet.
func (l Layout) Init() ([]InitResult, error) {
	results := make([]InitResult, 0, len(RequiredDirs))
	for _, rel := range RequiredDirs {
		dir := filepath.Join(l.Root, filepath.FromSlash(rel))
		_, err := os.Stat(dir)
		switch {
		case err == nil:
			results = append(results, InitResult{Dir: rel})
		case errors.Is(err, fs.ErrNotExist):
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return results, fmt.Errorf("creating %s: %w", rel, err)
			}
			results = append(results, InitResult{Dir: rel, Created: true})
		default:
			return results, fmt.Errorf("checking %s: %w", rel, err)
		}
	}
	return results, nil
}
