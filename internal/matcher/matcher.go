package matcher

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"

	"myfind/pkg/namefold"
)

// ErrRootInvalid reports a search root that is missing or not a directory.
var ErrRootInvalid = errors.New("root is not a directory")

const readDirBatch = 64

type Options struct {
	Recursive       bool
	CaseInsensitive bool
	// OnSkip is called for every subtree that could not be read. The walk
	// continues past it.
	OnSkip func(path string, err error)
}

// Match is one regular file whose name equals the target.
type Match struct {
	Name string
	Path string
}

// ValidateRoot checks that root is a directory that can be opened and listed.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRootInvalid, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootInvalid, root)
	}

	dir, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("%w: cannot open directory %s: %w", ErrRootInvalid, root, err)
	}
	defer dir.Close()
	if _, err := dir.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: cannot open directory %s: %w", ErrRootInvalid, root, err)
	}
	return nil
}

// FindDir searches the directory root on the local filesystem.
func FindDir(root, target string, opts Options) (iter.Seq[Match], error) {
	if err := ValidateRoot(root); err != nil {
		return nil, err
	}
	return Find(os.DirFS(root), root, target, opts)
}

// Find returns the matches for target under fsys. Paths are joined onto base.
// The root directory is opened before Find returns; everything below it is
// read lazily while the sequence is ranged over.
func Find(fsys fs.FS, base, target string, opts Options) (iter.Seq[Match], error) {
	info, err := fs.Stat(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootInvalid, base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootInvalid, base)
	}

	dir, err := fsys.Open(".")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", base, err)
	}

	mode := namefold.ModeFor(opts.CaseInsensitive)
	m := &walker{fsys: fsys, base: base, target: target, mode: mode, onSkip: opts.OnSkip}

	if opts.Recursive {
		_ = dir.Close()
		return m.walk, nil
	}
	rd, ok := dir.(fs.ReadDirFile)
	if !ok {
		_ = dir.Close()
		return nil, fmt.Errorf("%w: %s: cannot list directory", ErrRootInvalid, base)
	}
	return func(yield func(Match) bool) {
		defer rd.Close()
		m.list(rd, yield)
	}, nil
}

type walker struct {
	fsys   fs.FS
	base   string
	target string
	mode   namefold.Mode
	onSkip func(path string, err error)
}

func (m *walker) list(rd fs.ReadDirFile, yield func(Match) bool) {
	for {
		entries, err := rd.ReadDir(readDirBatch)
		for _, entry := range entries {
			if !m.matches(entry) {
				continue
			}
			if !yield(m.match(entry.Name())) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				m.skip(".", err)
			}
			return
		}
		if len(entries) == 0 {
			return
		}
	}
}

func (m *walker) walk(yield func(Match) bool) {
	_ = fs.WalkDir(m.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			m.skip(p, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !m.matches(d) {
			return nil
		}
		if !yield(m.match(p)) {
			return fs.SkipAll
		}
		return nil
	})
}

func (m *walker) matches(d fs.DirEntry) bool {
	return d.Type().IsRegular() && namefold.Equal(d.Name(), m.target, m.mode)
}

func (m *walker) match(rel string) Match {
	return Match{
		Name: path.Base(rel),
		Path: filepath.Join(m.base, filepath.FromSlash(rel)),
	}
}

func (m *walker) skip(rel string, err error) {
	if m.onSkip != nil {
		m.onSkip(filepath.Join(m.base, filepath.FromSlash(rel)), err)
	}
}
