package client

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

// DefaultFileSizeThreshold is the size from which file contents are not sent.
const DefaultFileSizeThreshold = 100_000

// binarySniffLen is how much of a file is inspected for binary content.
const binarySniffLen = 8000

// ErrOutsideRoot is returned for paths that are not below the tree root.
var ErrOutsideRoot = errors.New("path is outside the root directory")

// BuildFileTree builds the directory tree sent with a generation request.
// Only regular files are listed. A file is marked excluded, without content,
// when it is at least threshold bytes, cannot be read or looks binary. A
// threshold <= 0 selects DefaultFileSizeThreshold.
func BuildFileTree(root string, paths []string, threshold int64) (*larch.Directory, error) {
	if threshold <= 0 {
		threshold = DefaultFileSizeThreshold
	}
	root = filepath.Clean(root)
	dirs := map[string]*larch.Directory{}

	var makeDirs func(dir string) *larch.Directory
	makeDirs = func(dir string) *larch.Directory {
		if d, ok := dirs[dir]; ok {
			return d
		}
		d := &larch.Directory{Name: filepath.Base(dir), Children: []larch.Node{}}
		dirs[dir] = d
		if dir != root {
			parent := makeDirs(filepath.Dir(dir))
			parent.Children = append(parent.Children, d)
		}
		return d
	}
	makeDirs(root)

	for _, p := range paths {
		p = filepath.Clean(p)
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		parent := makeDirs(filepath.Dir(p))
		parent.Children = append(parent.Children, fileNode(p, info.Size(), threshold))
	}
	return dirs[root], nil
}

func fileNode(path string, size, threshold int64) *larch.File {
	f := &larch.File{Name: filepath.Base(path), Excluded: true}
	if size >= threshold {
		return f
	}
	b, err := os.ReadFile(path)
	if err != nil || isBinary(b) {
		return f
	}
	content := string(b)
	f.Content = &content
	f.Excluded = false
	return f
}

// isBinary reports whether b looks like binary data: a NUL byte or invalid
// UTF-8 in its first bytes.
func isBinary(b []byte) bool {
	head := b
	if len(head) > binarySniffLen {
		head = head[:binarySniffLen]
		// Do not count a multi-byte character cut at the boundary.
		for i := 0; i < utf8.UTFMax && len(head) > 0 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	return bytes.IndexByte(head, 0) >= 0 || !utf8.Valid(head)
}

// ListFiles returns the regular files below root, skipping hidden
// directories such as .git.
func ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
