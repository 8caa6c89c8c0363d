package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/crucible/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent (err = %v)", path, err)
	}
}

func TestInit_CreatesRequiredDirs(t *testing.T) {
	l := New(t.TempDir())
	if err := os.MkdirAll(l.Inbox(), 0o755); err != nil {
		t.Fatal(err)
	}

	results, err := l.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(results) != len(RequiredDirs) {
		t.Fatalf("results = %d, want %d", len(results), len(RequiredDirs))
	}
	for _, rel := range RequiredDirs {
		info, err := os.Stat(filepath.Join(l.Root, rel))
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", rel, err)
		}
	}
	if results[0].Dir != "00_Inbox" || results[0].Created {
		t.Errorf("inbox already existed, got %+v", results[0])
	}
	if !results[1].Created {
		t.Errorf("failed folder should be created, got %+v", results[1])
	}
}

func TestScanInbox(t *testing.T) {
	l := New(t.TempDir())
	writeFile(t, filepath.Join(l.Inbox(), "b.md"), "bee")
	writeFile(t, filepath.Join(l.Inbox(), "a.md"), "ay")
	writeFile(t, filepath.Join(l.Inbox(), "_draft.md"), "reserved")
	writeFile(t, filepath.Join(l.Inbox(), "notes.txt"), "not markdown")
	writeFile(t, filepath.Join(l.Inbox(), "sub", "deep", "c.md"), "sea")
	writeFile(t, filepath.Join(l.Failed(), "old.md"), "quarantined")

	items, err := l.ScanInbox()
	if err != nil {
		t.Fatalf("ScanInbox: %v", err)
	}

	var got []string
	for _, it := range items {
		rel := strings.TrimPrefix(it.Path, filepath.ToSlash(l.Inbox())+"/")
		got = append(got, rel)
	}
	want := []string{"_failed/old.md", "a.md", "b.md", "sub/deep/c.md"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("scanned = %v, want %v", got, want)
	}
	if items[1].Content != "ay" {
		t.Errorf("content = %q, want ay", items[1].Content)
	}
}

func TestScanInbox_MissingInbox(t *testing.T) {
	items, err := New(t.TempDir()).ScanInbox()
	if err != nil {
		t.Fatalf("ScanInbox: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}
}

func TestMoveToFailed(t *testing.T) {
	l := New(t.TempDir())
	src := filepath.Join(l.Inbox(), "note.md")
	writeFile(t, src, "x")

	got, err := l.MoveToFailed(src)
	if err != nil {
		t.Fatalf("MoveToFailed: %v", err)
	}
	if got != filepath.Join(l.Failed(), "note.md") {
		t.Errorf("target = %s", got)
	}
	assertMissing(t, src)
}

func TestMoveToFailed_AlreadyInFailedIsNoop(t *testing.T) {
	l := New(t.TempDir())
	src := filepath.Join(l.Failed(), "note.md")
	writeFile(t, src, "x")

	got, err := l.MoveToFailed(src)
	if err != nil {
		t.Fatalf("MoveToFailed: %v", err)
	}
	if got != src {
		t.Errorf("target = %s, want unchanged %s", got, src)
	}
	if readFile(t, src) != "x" {
		t.Error("file should be untouched")
	}
}

func TestMoveToFailed_CollisionAppendsMtime(t *testing.T) {
	l := New(t.TempDir())
	writeFile(t, filepath.Join(l.Failed(), "note.md"), "earlier")
	src := filepath.Join(l.Inbox(), "sub", "note.md")
	writeFile(t, src, "later")
	mtime := time.Unix(1700000000, 0)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	got, err := l.MoveToFailed(src)
	if err != nil {
		t.Fatalf("MoveToFailed: %v", err)
	}
	want := filepath.Join(l.Failed(), "note-1700000000.md")
	if got != want {
		t.Errorf("target = %s, want %s", got, want)
	}
	if readFile(t, want) != "later" || readFile(t, filepath.Join(l.Failed(), "note.md")) != "earlier" {
		t.Error("both quarantined files should keep their content")
	}
}

func TestRenameToFailed_FlagsOverwrite(t *testing.T) {
	l := New(t.TempDir())
	writeFile(t, filepath.Join(l.Failed(), "bad.md"), "old")
	src := filepath.Join(l.Inbox(), "bad.md")
	writeFile(t, src, "new")

	target, overwrote, err := l.RenameToFailed(src)
	if err != nil {
		t.Fatalf("RenameToFailed: %v", err)
	}
	if !overwrote {
		t.Error("expected overwrote = true")
	}
	if readFile(t, target) != "new" {
		t.Error("rename should replace the existing file")
	}
	assertMissing(t, src)
}

func TestSanitizeTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AI-Tools", "AI-Tools"},
		{"AI/Tools!!", "AITools"},
		{"  spaced out  ", "spaced out"},
		{"snake_case", "snake_case"},
		{"../../etc", "etc"},
		{"语音转文字", "语音转文字"},
		{"Café ²", "Café ²"},
		{"!!!", "Misc"},
		{"", "Misc"},
		{strings.Repeat("a", 100), strings.Repeat("a", 80)},
	}
	for _, tt := range tests {
		if got := SanitizeTopic(tt.in); got != tt.want {
			t.Errorf("SanitizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithSummary(t *testing.T) {
	if got := WithSummary("hello\n", ""); got != "hello\n" {
		t.Errorf("empty summary changed content: %q", got)
	}
	want := "## AI Summary\n\nTest summary\n\nhello\n"
	if got := WithSummary("hello\n", "Test summary"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPlace(t *testing.T) {
	l := New(t.TempDir())
	src := filepath.Join(l.Inbox(), "foo.md")
	writeFile(t, src, "hello\n")
	dir := l.TopicDir(model.CategoryResources, "AI-Tools")

	dest, err := Place(src, "hello\n", dir)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if dest != filepath.Join(l.Root, "03_Resources", "AI-Tools", "foo.md") {
		t.Errorf("dest = %s", dest)
	}
	if readFile(t, dest) != "hello\n" {
		t.Error("content mismatch")
	}
	assertMissing(t, src)
}

func TestUpdateIndex_Creates(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "AI-Tools")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := UpdateIndex(folder, "foo.md"); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	want := "# AI-Tools\n\n- [[AI-Tools/foo.md]]\n"
	if got := readFile(t, filepath.Join(folder, IndexName)); got != want {
		t.Errorf("index = %q, want %q", got, want)
	}
}

func TestUpdateIndex_DeduplicatesLink(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "AI-Tools")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := UpdateIndex(folder, "foo.md"); err != nil {
			t.Fatalf("UpdateIndex #%d: %v", i+1, err)
		}
	}
	content := readFile(t, filepath.Join(folder, IndexName))
	if n := strings.Count(content, "- [[AI-Tools/foo.md]]"); n != 1 {
		t.Errorf("link count = %d, want 1\n%s", n, content)
	}
}

func TestUpdateIndex_AppendsOnNewLine(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "Go")
	writeFile(t, filepath.Join(folder, IndexName), "# Go\n\n- [[Go/a.md]]")

	if err := UpdateIndex(folder, "b.md"); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	want := "# Go\n\n- [[Go/a.md]]\n- [[Go/b.md]]\n"
	if got := readFile(t, filepath.Join(folder, IndexName)); got != want {
		t.Errorf("index = %q, want %q", got, want)
	}

	links, err := IndexLinks(folder)
	if err != nil {
		t.Fatalf("IndexLinks: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("links = %v", links)
	}
}

func TestTopics(t *testing.T) {
	l := New(t.TempDir())
	if err := UpdateIndex(mkdir(t, l.TopicDir(model.CategoryResources, "Go")), "a.md"); err != nil {
		t.Fatal(err)
	}
	if err := UpdateIndex(mkdir(t, l.TopicDir(model.CategoryProjects, "Crucible")), "b.md"); err != nil {
		t.Fatal(err)
	}
	mkdir(t, l.Generated())

	topics, err := l.Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics = %+v, want 2", topics)
	}
	if topics[0].Category != model.CategoryProjects || topics[0].Name != "Crucible" {
		t.Errorf("topics[0] = %+v", topics[0])
	}
	if topics[1].Category != model.CategoryResources || len(topics[1].Links) != 1 {
		t.Errorf("topics[1] = %+v", topics[1])
	}
}

func mkdir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}
