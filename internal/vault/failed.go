package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MoveToFailed quarantines src. A file already directly inside the failed
// folder is left where it is. When the failed folder already holds a file of
// the same name, the source's modification time (unix seconds) is appended to
// the stem. Returns the final path.
func (l Layout) MoveToFailed(src string) (string, error) {
	failed := l.Failed()
	if err := os.MkdirAll(failed, 0o755); err != nil {
		return "", fmt.Errorf("creating failed folder: %w", err)
	}

	if filepath.Clean(filepath.Dir(src)) == filepath.Clean(failed) {
		return src, nil
	}

	name := filepath.Base(src)
	target := filepath.Join(failed, name)
	exists, err := fileExists(target)
	if err != nil {
		return "", err
	}
	if exists {
		info, err := os.Stat(src)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", src, err)
		}
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		target = filepath.Join(failed, fmt.Sprintf("%s-%d%s", stem, info.ModTime().Unix(), ext))
	}

	if err := os.Rename(src, target); err != nil {
		return "", fmt.Errorf("moving %s to failed: %w", src, err)
	}
	return target, nil
}

// RenameToFailed moves src to <failed>/<name> with no collision handling; an
// existing file of that name is replaced. overwrote reports whether that
// happened so the caller can flag it.
func (l Layout) RenameToFailed(src string) (target string, overwrote bool, err error) {
	failed := l.Failed()
	if err := os.MkdirAll(failed, 0o755); err != nil {
		return "", false, fmt.Errorf("creating failed folder: %w", err)
	}

	target = filepath.Join(failed, filepath.Base(src))
	if filepath.Clean(target) != filepath.Clean(src) {
		overwrote, err = fileExists(target)
		if err != nil {
			return "", false, err
		}
	}

	if err := os.Rename(src, target); err != nil {
		return "", false, fmt.Errorf("moving %s to failed: %w", src, err)
	}
	return target, overwrote, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
