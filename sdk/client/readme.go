package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var readmePattern = regexp.MustCompile(`^README\.md(\.bk(\d+))?$`)

// readmeNames are tried in order when looking for an existing README.
var readmeNames = []string{"README.md", "README.txt", "README"}

// NextReadmeBackupName returns "README.md.bk<N>" where N is one more than the
// largest existing backup number. ok is false when names has no README.md.
func NextReadmeBackupName(names []string) (name string, ok bool) {
	exists := false
	highest := 0
	for _, n := range names {
		m := readmePattern.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		if m[1] == "" {
			exists = true
			continue
		}
		if i, err := strconv.Atoi(m[2]); err == nil && i > highest {
			highest = i
		}
	}
	if !exists {
		return "", false
	}
	return fmt.Sprintf("README.md.bk%d", highest+1), true
}

// ReadExistingReadme returns the content of the first README found in dir.
// ok is false when there is none.
func ReadExistingReadme(dir string) (content string, ok bool, err error) {
	for _, n := range readmeNames {
		b, err := os.ReadFile(filepath.Join(dir, n))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return string(b), true, nil
	}
	return "", false, nil
}

// WriteReadme writes content to dir/README.md. An existing README.md is
// first copied to the next backup name, which is returned.
func WriteReadme(dir, content string) (backup string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	target := filepath.Join(dir, "README.md")
	if bk, ok := NextReadmeBackupName(names); ok {
		old, err := os.ReadFile(target)
		if err != nil {
			return "", err
		}
		backup = filepath.Join(dir, bk)
		if err := os.WriteFile(backup, old, 0o644); err != nil {
			return "", err
		}
	}
	return backup, os.WriteFile(target, []byte(content), 0o644)
}
