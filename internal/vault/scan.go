package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/amishk599/crucible/internal/model"
)

// markdownGlob matches markdown files at any depth below the inbox.
var markdownGlob = glob.MustCompile("**.md", '/')

// ScanInbox reads every markdown note below the inbox in lexical walk order.
// Files whose name starts with "_" are reserved and skipped. A missing inbox
// is treated as empty.
func (l Layout) ScanInbox() ([]model.InboxItem, error) {
	inbox := l.Inbox()
	var items []model.InboxItem

	err := filepath.WalkDir(inbox, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inbox && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		rel, err := filepath.Rel(inbox, path)
		if err != nil {
			return err
		}
		if !markdownGlob.Match(filepath.ToSlash(rel)) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		items = append(items, model.InboxItem{
			Path:    filepath.ToSlash(path),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning inbox: %w", err)
	}
	return items, nil
}
