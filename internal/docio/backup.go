package docio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Backups manages copies of documents taken before destructive writes.
// Backup names are the original file name prefixed with a timestamp, kept
// either in Dir or in a "backups" directory next to the original.
type Backups struct {
	Dir string
}

func (b *Backups) dirFor(path string) string {
	if b.Dir != "" {
		return b.Dir
	}
	return filepath.Join(filepath.Dir(path), "backups")
}

// Create copies path into the backup directory and returns the backup path.
func (b *Backups) Create(path string) (string, error) {
	dir := b.dirFor(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	base := time.Now().Format("20060102_150405") + "_" + filepath.Base(path)
	dst := filepath.Join(dir, base)
	// Multiple backups within one second get a numeric suffix.
	for n := 1; ; n++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			break
		}
		dst = filepath.Join(dir, fmt.Sprintf("%d_%s", n, base))
	}
	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("copy to backup: %w", err)
	}
	return dst, nil
}

// List returns all backups of path, newest first.
func (b *Backups) List(path string) ([]string, error) {
	dir := b.dirFor(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	base := filepath.Base(path)
	type candidate struct {
		path string
		mod  time.Time
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_"+base) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, e.Name()), mod: info.ModTime()})
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].mod.Equal(found[j].mod) {
			return found[i].mod.After(found[j].mod)
		}
		return found[i].path > found[j].path
	})
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.path
	}
	return out, nil
}

// Restore copies a backup over path.
func (b *Backups) Restore(path, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}
	if err := copyFile(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}

// Prune deletes backups of path beyond the keep most recent ones and
// returns how many were removed.
func (b *Backups) Prune(path string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	backups, err := b.List(path)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}
	removed := 0
	for _, bp := range backups[keep:] {
		if err := os.Remove(bp); err != nil {
			return removed, fmt.Errorf("remove %s: %w", bp, err)
		}
		removed++
	}
	return removed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
