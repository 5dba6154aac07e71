package generator

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/tacogips/dottmpl/internal/debug"
)

// DefaultFileMode is the permission used for rendered files.
const DefaultFileMode os.FileMode = 0644

// Reader reads template sources.
type Reader interface {
	// ReadFile returns the full contents of path.
	ReadFile(path string) ([]byte, error)
}

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile replaces the content of path, creating it if needed.
	WriteFile(path string, content []byte) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error
}

// FileReader implements Reader on the local filesystem.
type FileReader struct{}

// NewFileReader creates a new FileReader.
func NewFileReader() Reader {
	return FileReader{}
}

// ReadFile reads path. Errors are returned unchanged.
func (FileReader) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	debug.Named("generator").Debug("read file", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// FileWriter implements Writer for filesystem operations.
type FileWriter struct {
	mode   os.FileMode
	atomic bool
}

// WriterOption configures a FileWriter.
type WriterOption func(*FileWriter)

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode os.FileMode) WriterOption {
	return func(w *FileWriter) {
		if mode != 0 {
			w.mode = mode
		}
	}
}

// WithAtomic controls whether writes go through a temporary file and rename.
func WithAtomic(atomic bool) WriterOption {
	return func(w *FileWriter) {
		w.atomic = atomic
	}
}

// NewFileWriter creates a new FileWriter. Writes are atomic by default.
func NewFileWriter(opts ...WriterOption) Writer {
	w := &FileWriter{
		mode:   DefaultFileMode,
		atomic: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFile writes content to path, replacing any existing content.
// Creates parent directories if they don't exist. When path is a symlink
// its target is written.
func (w *FileWriter) WriteFile(path string, content []byte) error {
	log := debug.Named("generator")
	log.Debug("writing file", "path", path, "size", humanize.Bytes(uint64(len(content))), "mode", w.mode.String())

	// Create parent directories if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := w.CreateDir(dir); err != nil {
			return newGeneratorError(GeneratorWriteFailed,
				"failed to create parent directory",
				path,
				err)
		}
	}

	if !w.atomic {
		if err := os.WriteFile(path, content, w.mode); err != nil {
			return newGeneratorError(GeneratorWriteFailed,
				"failed to write file content",
				path,
				err)
		}
		return nil
	}

	target, err := resolveTarget(path)
	if err != nil {
		return newGeneratorError(GeneratorWriteFailed,
			"failed to resolve symlink",
			path,
			err)
	}

	// Write atomically using a temporary file next to the target
	f, err := os.CreateTemp(filepath.Dir(target), ".dottmpl-*")
	if err != nil {
		return newGeneratorError(GeneratorWriteFailed,
			"failed to create temporary file",
			path,
			err)
	}
	tempFile := f.Name()
	log.Trace("created temporary file", "path", tempFile)

	_, err = f.Write(content)
	if err == nil {
		err = f.Chmod(w.mode)
	}
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to write file content",
			path,
			err)
	}

	if closeErr != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to close file",
			path,
			closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		_ = os.Remove(tempFile)
		return newGeneratorError(GeneratorWriteFailed,
			"failed to rename temporary file",
			path,
			err)
	}

	log.Debug("file written", "path", target)
	return nil
}

// resolveTarget follows a symlink at path. A missing path resolves to itself.
func resolveTarget(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return path, nil
	}

	target, err := filepath.EvalSymlinks(path)
	if os.IsNotExist(err) {
		// dangling link: write where it points
		link, linkErr := os.Readlink(path)
		if linkErr != nil {
			return "", linkErr
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		return link, nil
	}
	return target, err
}

// CreateDir creates a directory and any necessary parent directories.
// Uses 0755 permissions for created directories.
func (w *FileWriter) CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return newGeneratorError(GeneratorWriteFailed,
			"failed to create directory",
			path,
			err)
	}
	return nil
}
