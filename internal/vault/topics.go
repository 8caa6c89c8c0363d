package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amishk599/crucible/internal/model"
)

// Topic is a category subfolder that carries an index.
type Topic struct {
	Category model.Category
	Name     string
	Dir      string
	Links    []string
}

// Topics lists every topic folder with an Index.md, category by category in
// model.Categories order and by name within a category.
func (l Layout) Topics() ([]Topic, error) {
	var topics []Topic
	for _, c := range model.Categories {
		root := filepath.Join(l.Root, c.Root())
		entries, err := os.ReadDir(root)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(root, e.Name())
			exists, err := fileExists(filepath.Join(dir, IndexName))
			if err != nil {
				return nil, err
			}
			if !exists {
				continue
			}
			links, err := IndexLinks(dir)
			if err != nil {
				return nil, err
			}
			topics = append(topics, Topic{Category: c, Name: e.Name(), Dir: dir, Links: links})
		}
	}
	return topics, nil
}
