package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestBuildFileTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	writeFile(t, filepath.Join(root, "main.go"), []byte("package main\n"))
	writeFile(t, filepath.Join(root, "pkg", "util", "util.go"), []byte("package util\n"))
	writeFile(t, filepath.Join(root, "big.txt"), []byte(strings.Repeat("x", 64)))
	writeFile(t, filepath.Join(root, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0, 0, 0, 0})
	writeFile(t, filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))

	paths, err := ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("ListFiles = %v; want 4 files outside .git", paths)
	}
	tree, err := BuildFileTree(root, paths, 32)
	if err != nil {
		t.Fatalf("BuildFileTree: %v", err)
	}
	if tree.Name != "proj" {
		t.Fatalf("root name = %q", tree.Name)
	}

	files := map[string]*larch.File{}
	var walk func(d *larch.Directory, prefix string)
	walk = func(d *larch.Directory, prefix string) {
		for _, n := range d.Children {
			switch v := n.(type) {
			case *larch.File:
				files[prefix+v.Name] = v
			case *larch.Directory:
				walk(v, prefix+v.Name+"/")
			}
		}
	}
	walk(tree, "")

	if f := files["main.go"]; f == nil || f.Excluded || f.Content == nil || *f.Content != "package main\n" {
		t.Fatalf("main.go = %+v", f)
	}
	if f := files["pkg/util/util.go"]; f == nil || f.Excluded {
		t.Fatalf("nested file = %+v", f)
	}
	for _, name := range []string{"big.txt", "logo.png"} {
		if f := files[name]; f == nil || !f.Excluded || f.Content != nil {
			t.Fatalf("%s should be excluded: %+v", name, f)
		}
	}

	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"name":"logo.png","excluded":true,"content"`) {
		t.Fatalf("excluded file carries content: %s", b)
	}
}

func TestBuildFileTreeRejectsOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "proj")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, other, []byte("x"))
	if _, err := BuildFileTree(root, []string{other}, 0); !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("err = %v; want ErrOutsideRoot", err)
	}
}

func TestIsBinary(t *testing.T) {
	if isBinary([]byte("héllo\n")) {
		t.Fatalf("utf-8 text detected as binary")
	}
	if !isBinary([]byte{'a', 0, 'b'}) {
		t.Fatalf("NUL byte not detected")
	}
	if !isBinary([]byte{0xff, 0xfe, 0xfd}) {
		t.Fatalf("invalid utf-8 not detected")
	}
	long := []byte(strings.Repeat("a", binarySniffLen-1) + "é")
	if isBinary(long) {
		t.Fatalf("character cut at the sniff boundary detected as binary")
	}
}
