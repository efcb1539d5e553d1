package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNextReadmeBackupName(t *testing.T) {
	cases := []struct {
		names []string
		want  string
		ok    bool
	}{
		{nil, "", false},
		{[]string{"README.md.bk3"}, "", false},
		{[]string{"README.md"}, "README.md.bk1", true},
		{[]string{"README.md", "README.md.bk2", "README.md.bk10", "README.md.bkx"}, "README.md.bk11", true},
	}
	for _, c := range cases {
		got, ok := NextReadmeBackupName(c.names)
		if got != c.want || ok != c.ok {
			t.Fatalf("NextReadmeBackupName(%v) = %q, %v; want %q, %v", c.names, got, ok, c.want, c.ok)
		}
	}
}

func TestReadAndWriteReadme(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := ReadExistingReadme(dir); ok || err != nil {
		t.Fatalf("empty dir: ok=%v err=%v", ok, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("old txt"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	content, ok, err := ReadExistingReadme(dir)
	if err != nil || !ok || content != "old txt" {
		t.Fatalf("ReadExistingReadme = %q, %v, %v", content, ok, err)
	}

	bk, err := WriteReadme(dir, "first")
	if err != nil || bk != "" {
		t.Fatalf("first write: backup=%q err=%v", bk, err)
	}
	bk, err = WriteReadme(dir, "second")
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if filepath.Base(bk) != "README.md.bk1" {
		t.Fatalf("backup = %q", bk)
	}
	b, _ := os.ReadFile(bk)
	if string(b) != "first" {
		t.Fatalf("backup content = %q", b)
	}
	b, _ = os.ReadFile(filepath.Join(dir, "README.md"))
	if string(b) != "second" {
		t.Fatalf("README.md = %q", b)
	}
}
