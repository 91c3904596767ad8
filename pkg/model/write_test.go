package model

import (
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
)

// readTree returns every regular file below dir keyed by slash-separated
// relative path.
func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return files
}

func sampleModel() *Group {
	root := &Group{Name: "api", Label: "API"}
	root.Add(&Page{Name: "intro.md", Content: "intro"})
	users := root.Add(&Group{Name: "users", Label: "Users"}).(*Group)
	users.Add(&Page{Name: "list.md", Content: "list"})
	users.Add(&Group{Name: "admin", Label: "Admin"})
	return root
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	fsys := osfs.New(dir)

	if err := Write(fsys, ".", sampleModel()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got := readTree(t, dir)
	want := map[string]string{
		"api/_category_.json":             "{\n    \"label\": \"API\",\n    \"position\": 0\n}\n",
		"api/intro.md":                    "intro",
		"api/users/_category_.json":       "{\n    \"label\": \"Users\",\n    \"position\": 1\n}\n",
		"api/users/list.md":               "list",
		"api/users/admin/_category_.json": "{\n    \"label\": \"Admin\",\n    \"position\": 1\n}\n",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %#v\nwant %#v", got, want)
	}
}

func TestWriteEmptyGroup(t *testing.T) {
	dir := t.TempDir()
	fsys := osfs.New(dir)

	root := &Group{Name: "api", Label: "API"}
	root.Add(&Group{Name: "empty", Label: "Nothing here"})

	if err := Write(fsys, ".", root); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	meta, err := ReadMetadata(fsys, "api/empty")
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if meta != (Metadata{Label: "Nothing here", Position: 0}) {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestWritePostFilterNumbering(t *testing.T) {
	// A declined page leaves no gap: B is child 0 and C is child 1.
	dir := t.TempDir()
	fsys := osfs.New(dir)

	root := &Group{Name: ".", Label: "API"}
	root.Add(&Page{Name: "b.md", Content: "b"})
	root.Add(&Group{Name: "c", Label: "C"})

	if err := Write(fsys, ".", root); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	meta, err := ReadMetadata(fsys, "c")
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if meta.Position != 1 {
		t.Errorf("c position = %d, want 1", meta.Position)
	}
}

func TestWriteDestructiveRebuild(t *testing.T) {
	dir := t.TempDir()
	fsys := osfs.New(dir)

	if err := Write(fsys, ".", sampleModel()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	// Stray files from elsewhere are removed too.
	if err := os.WriteFile(filepath.Join(dir, "api", "users", "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := sampleModel()
	users := changed.Children[1].(*Group)
	users.Children = users.Children[1:] // drop list.md

	if err := Write(fsys, ".", changed); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got := readTree(t, dir)
	for _, gone := range []string{"api/users/list.md", "api/users/stray.txt"} {
		if _, ok := got[gone]; ok {
			t.Errorf("%s should not survive a rebuild", gone)
		}
	}
	// admin is now child 0 of users.
	meta, err := ReadMetadata(fsys, "api/users/admin")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Position != 0 {
		t.Errorf("admin position = %d, want 0", meta.Position)
	}
}

func TestWriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	fsys := osfs.New(dir)

	if err := Write(fsys, ".", sampleModel()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	first := readTree(t, dir)

	if err := Write(fsys, ".", sampleModel()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	second := readTree(t, dir)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild changed output:\n%#v\n%#v", first, second)
	}
}

func TestWriteRootDot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old.md"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	fsys := osfs.New(dir)

	root := &Group{Name: ".", Label: "API"}
	root.Add(&Page{Name: "new.md", Content: "new"})
	if err := Write(fsys, ".", root); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got := readTree(t, dir)
	want := map[string]string{
		"_category_.json": "{\n    \"label\": \"API\",\n    \"position\": 0\n}\n",
		"new.md":          "new",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %#v, want %#v", got, want)
	}
}

func TestWriteReplacesFile(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the group directory should go is reset like a stale directory.
	if err := os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fsys := osfs.New(dir)

	root := &Group{Name: "blocker", Label: "B"}
	root.Add(&Page{Name: "p.md", Content: "p"})
	if err := Write(fsys, ".", root); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got := readTree(t, dir)["blocker/p.md"]; got != "p" {
		t.Errorf("blocker/p.md = %q, want p", got)
	}
}

func TestWriteCollision(t *testing.T) {
	fsys := osfs.New(t.TempDir())

	bad := &Group{Name: "api", Label: "API"}
	bad.Add(&Group{Name: "inner", Label: "dup"})
	bad.Add(&Page{Name: "inner", Content: "page"})
	if err := Write(fsys, ".", bad); err == nil {
		t.Error("Write() should fail when a page collides with a group directory")
	}
}
