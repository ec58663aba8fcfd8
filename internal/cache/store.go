// Package cache is the hierarchical file store behind the offline passage cache.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

// DirName is the directory under the data root that holds cached chapters.
const DirName = "bible-cache"

var (
	// ErrNotFound is returned by ReadText for a missing entry.
	ErrNotFound = errors.New("cache: entry not found")
	// ErrInvalidPath is returned for relative paths that would leave the store root.
	ErrInvalidPath = errors.New("cache: invalid path")
)

// FileStore reads and writes text files below a root directory.
// Paths passed to its methods are relative to the root and use forward slashes.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at {dataDir}/bible-cache, creating the directory.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	root := filepath.Join(dataDir, DirName)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &FileStore{root: root}, nil
}

// Root returns the store root directory.
func (s *FileStore) Root() string {
	return s.root
}

// ChapterPath returns the relative path of a chapter entry: {translation}/{book}/{chapter}.json.
func ChapterPath(key scripture.ChapterKey) string {
	return key.Translation + "/" + key.Book + "/" + strconv.Itoa(key.Chapter) + ".json"
}

// Exists reports whether rel names an existing file or directory.
func (s *FileStore) Exists(rel string) bool {
	path, err := s.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// EnsureDir creates rel and its parents. It succeeds when the directory already exists,
// including when another writer created it concurrently.
func (s *FileStore) EnsureDir(rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return nil
		}
		return fmt.Errorf("create directory %s: %w", rel, err)
	}
	return nil
}

// ReadText returns the contents of rel. A missing file yields ErrNotFound.
func (s *FileStore) ReadText(rel string) ([]byte, error) {
	path, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// WriteText replaces rel with data. The parent directory is created if needed.
// The content is written to a temporary file and renamed into place, so readers
// never observe a partially written entry.
func (s *FileStore) WriteText(rel string, data []byte) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", rel, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", rel, err)
	}
	return nil
}

// Remove deletes rel. Removing a missing entry is not an error.
func (s *FileStore) Remove(rel string) error {
	path, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

// Ping checks that the root directory is still reachable.
func (s *FileStore) Ping() error {
	_, err := os.Stat(s.root)
	return err
}

// Chapters yields the key of every chapter entry under the root.
// Files that do not follow the {translation}/{book}/{chapter}.json layout are skipped.
func (s *FileStore) Chapters() iter.Seq2[scripture.ChapterKey, error] {
	return func(yield func(scripture.ChapterKey, error) bool) {
		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				return err
			}
			key, ok := parseChapterPath(filepath.ToSlash(rel))
			if !ok {
				return nil
			}
			if !yield(key, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(scripture.ChapterKey{}, fmt.Errorf("walk cache: %w", err))
		}
	}
}

func parseChapterPath(rel string) (scripture.ChapterKey, bool) {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ".json") {
		return scripture.ChapterKey{}, false
	}
	chapter, err := strconv.Atoi(strings.TrimSuffix(parts[2], ".json"))
	if err != nil || chapter <= 0 {
		return scripture.ChapterKey{}, false
	}
	return scripture.ChapterKey{Translation: parts[0], Book: parts[1], Chapter: chapter}, true
}

func (s *FileStore) resolve(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, local), nil
}
