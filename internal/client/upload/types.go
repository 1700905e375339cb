package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileHandle is a named, readable piece of content selected for upload.
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Sizer is implemented by handles that know their content length upfront.
type Sizer interface {
	Size() int64
}

// LocalFile is a FileHandle backed by a file on disk.
type LocalFile struct {
	path string
	size int64
}

// NewLocalFile stats path and returns a handle for it. Directories are rejected.
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &LocalFile{path: path, size: info.Size()}, nil
}

func (f *LocalFile) Name() string { return filepath.Base(f.path) }
func (f *LocalFile) Path() string { return f.path }
func (f *LocalFile) Size() int64  { return f.size }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemoryFile is a FileHandle over an in-memory byte slice.
type MemoryFile struct {
	name string
	data []byte
}

func NewMemoryFile(name string, data []byte) *MemoryFile {
	return &MemoryFile{name: name, data: data}
}

func (f *MemoryFile) Name() string { return f.name }
func (f *MemoryFile) Size() int64  { return int64(len(f.data)) }

func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// Parameters tell the transferer where and how to send a file.
type Parameters struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Data   map[string]string `json:"data"`
}

// Document is the server-assigned identity of a stored file.
type Document struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Negotiation is the validated answer of the information endpoint.
// Document is set only in DescriptorFromNegotiation mode.
type Negotiation struct {
	Parameters Parameters
	Document   *Document
}

// Failure records a file whose pipeline did not complete.
type Failure struct {
	Name string
	Err  error
}

// Result is the outcome of one UploadAll call. Documents are unordered.
type Result struct {
	Documents []Document
	Failures  []Failure
	Requested int
	Batches   int
}

// Uploaded is the number of stored documents.
func (r Result) Uploaded() int { return len(r.Documents) }

// Missing is the number of requested files without a document.
func (r Result) Missing() int { return r.Requested - len(r.Documents) }

// Complete reports whether every requested file was stored.
func (r Result) Complete() bool { return r.Missing() == 0 }
