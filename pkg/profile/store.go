package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/systmms/ccm/internal/logging"
	"github.com/systmms/ccm/internal/metrics"
	"github.com/systmms/ccm/internal/paths"
)

// Store persists profiles as one TOML file per profile. It keeps no state
// between calls; the directory contents are the only source of truth.
type Store struct {
	dir     string
	logger  *logging.Logger
	metrics *metrics.Recorder
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithMetrics sets the recorder that counts store operations.
func WithMetrics(r *metrics.Recorder) StoreOption {
	return func(s *Store) { s.metrics = r }
}

// NewStore creates a store over an existing profiles directory.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenStore resolves the default profiles directory, creating it if
// needed, and returns a store over it.
func OpenStore(opts ...StoreOption) (*Store, error) {
	p, err := paths.Resolve()
	if err != nil {
		return nil, err
	}
	return NewStore(p.ProfilesDir, opts...), nil
}

// Dir returns the profiles directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the record file for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+paths.ProfileExt)
}

// Create stores a new profile. It fails with ErrAlreadyExists when a
// record with the same name is present, leaving that record untouched.
func (s *Store) Create(p *Profile) (err error) {
	defer func() { s.observe("create", err) }()

	if err := p.Validate(); err != nil {
		return err
	}

	path := s.Path(p.Name)
	if _, err := os.Lstat(path); err == nil {
		return &Error{Op: "create", Name: p.Name, Path: path, Err: ErrAlreadyExists}
	}

	data, err := s.encode(p, path)
	if err != nil {
		return err
	}

	tmp, err := writeTemp(s.dir, p.Name, data)
	if err != nil {
		return &IOError{Op: "write", Path: s.dir, Err: err}
	}
	defer os.Remove(tmp)

	if err := publishNew(tmp, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &Error{Op: "create", Name: p.Name, Path: path, Err: ErrAlreadyExists}
		}
		return &IOError{Op: "create", Path: path, Err: err}
	}

	s.logger.Debug("created profile %s at %s", p.Name, path)
	return nil
}

// Get loads the named profile.
func (s *Store) Get(name string) (_ *Profile, err error) {
	defer func() { s.observe("get", err) }()

	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: "get", Name: name, Path: path, Err: ErrNotFound}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	p, err := decode(data)
	if err != nil {
		return nil, deserializationError(path, err)
	}
	if p.Name != name {
		return nil, deserializationError(path,
			fmt.Errorf("name field %q does not match file name %q", p.Name, name))
	}

	return p, nil
}

// Update replaces an existing profile as a whole. The new content is
// written to a temporary file and renamed over the old record.
func (s *Store) Update(p *Profile) (err error) {
	defer func() { s.observe("update", err) }()

	if err := p.Validate(); err != nil {
		return err
	}

	path := s.Path(p.Name)
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Error{Op: "update", Name: p.Name, Path: path, Err: ErrNotFound}
		}
		return &IOError{Op: "stat", Path: path, Err: err}
	}

	data, err := s.encode(p, path)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	s.logger.Debug("updated profile %s at %s", p.Name, path)
	return nil
}

// Delete removes the named profile. There is no recovery.
func (s *Store) Delete(name string) (err error) {
	defer func() { s.observe("delete", err) }()

	if err := ValidateName(name); err != nil {
		return err
	}

	path := s.Path(name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Error{Op: "delete", Name: name, Path: path, Err: ErrNotFound}
		}
		return &IOError{Op: "remove", Path: path, Err: err}
	}

	s.logger.Debug("deleted profile %s", name)
	return nil
}

// Exists reports whether a record for name is present.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}

	path := s.Path(name)
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &IOError{Op: "stat", Path: path, Err: err}
	}
	return true, nil
}

// List returns the stored profile names in ascending order. Names come
// from file names only, so a record with corrupt content is still listed.
func (s *Store) List() (_ []string, err error) {
	defer func() { s.observe("list", err) }()

	names := []string{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return names, nil
		}
		return nil, &IOError{Op: "list", Path: s.dir, Err: err}
	}

	for _, entry := range entries {
		fileName := entry.Name()
		if strings.HasPrefix(fileName, ".") || !strings.HasSuffix(fileName, paths.ProfileExt) {
			continue
		}
		if !s.isRegular(entry) {
			continue
		}

		name := strings.TrimSuffix(fileName, paths.ProfileExt)
		if ValidateName(name) != nil {
			s.logger.Debug("skipping %s: not a valid profile name", fileName)
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

func (s *Store) isRegular(entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

func (s *Store) encode(p *Profile, path string) ([]byte, error) {
	data, err := Marshal(p)
	if err != nil {
		var cerr *CodecError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) observe(op string, err error) {
	s.metrics.RecordProfileOp(op, resultLabel(err))
	if err != nil {
		s.logger.Debug("profile %s failed: %v", op, err)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrDeserializationFailed), errors.Is(err, ErrSerializationFailed):
		return "corrupt"
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidConfig):
		return "invalid"
	default:
		return metrics.ResultError
	}
}

// writeTemp writes data to a hidden temporary file in dir and flushes it
// to stable storage.
func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// publishNew makes tmp visible at path only if path does not exist yet.
// A hard link is an atomic create-new; filesystems without link support
// fall back to check-then-rename.
func publishNew(tmp, path string) error {
	err := os.Link(tmp, path)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}

	if _, statErr := os.Lstat(path); statErr == nil {
		return fs.ErrExist
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}
	return os.Rename(tmp, path)
}
