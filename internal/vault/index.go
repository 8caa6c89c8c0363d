package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// UpdateIndex records filename in the folder's Index.md as a wiki link,
// "- [[<folder>/<filename>]]". The index is created with a heading when
// absent; a link that is already listed is not added again.
func UpdateIndex(folder, filename string) error {
	path := filepath.Join(folder, IndexName)
	name := filepath.Base(folder)
	link := fmt.Sprintf("- [[%s/%s]]", name, filename)

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		content := fmt.Sprintf("# %s\n\n%s\n", name, link)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("creating index %s: %w", path, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading index %s: %w", path, err)
	}

	text := string(existing)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimRight(line, "\r") == link {
			return nil
		}
	}

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += link + "\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("updating index %s: %w", path, err)
	}
	return nil
}

// IndexLinks returns the wiki-link lines listed in the folder's index, in file
// order. A missing index yields no links.
func IndexLinks(folder string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(folder, IndexName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	var links []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "- [[") && strings.HasSuffix(line, "]]") {
			links = append(links, line)
		}
	}
	return links, nil
}
