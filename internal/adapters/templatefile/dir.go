// Package templatefile persists template strokes as JSON files, one per
// label, named template_<label>.json. Each file holds the raw stroke as an
// array of [x, y] pairs.
package templatefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/pkg/metrics"
)

const (
	filePrefix      = "template_"
	fileSuffix      = ".json"
	defaultFileMode = 0o644
	dirMode         = 0o755
)

// Record is one template read from disk.
type Record struct {
	Label  string
	Stroke model.Stroke
	Path   string
}

// Dir reads and writes template files in a single directory.
type Dir struct {
	path      string
	fileMode  os.FileMode
	createDir bool
}

// New returns a Dir rooted at path. The directory need not exist yet.
func New(path string, opts ...Option) *Dir {
	d := &Dir{path: path, fileMode: defaultFileMode, createDir: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// FileName returns the file name used for label.
func FileName(label string) string {
	return filePrefix + label + fileSuffix
}

// ValidateLabel rejects labels that cannot be used as part of a file name.
func ValidateLabel(label string) error {
	switch {
	case label == "":
		return fmt.Errorf("%w: empty", ErrInvalidLabel)
	case strings.ContainsAny(label, `/\`) || strings.ContainsRune(label, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidLabel, label)
	case strings.Contains(label, ".."):
		return fmt.Errorf("%w: %q contains \"..\"", ErrInvalidLabel, label)
	case strings.ContainsRune(label, 0):
		return fmt.Errorf("%w: %q contains NUL", ErrInvalidLabel, label)
	}
	return nil
}

// List reads every template file in lexical file name order. A missing
// directory yields no records.
func (d *Dir) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		metrics.RecordPersistenceError("read")
		return nil, fmt.Errorf("%w: %s: %w", ErrReadTemplate, d.path, err)
	}

	var out []Record
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		label := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if ValidateLabel(label) != nil {
			continue
		}
		path := filepath.Join(d.path, name)
		stroke, err := readStroke(path)
		if err != nil {
			metrics.RecordPersistenceError("read")
			return nil, err
		}
		out = append(out, Record{Label: label, Stroke: stroke, Path: path})
	}

	metrics.RecordTemplatesLoaded(len(out))
	return out, nil
}

// Load reads the template for a single label.
func (d *Dir) Load(ctx context.Context, label string) (Record, error) {
	if err := ValidateLabel(label); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	path := filepath.Join(d.path, FileName(label))
	stroke, err := readStroke(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, label)
		}
		metrics.RecordPersistenceError("read")
		return Record{}, err
	}
	return Record{Label: label, Stroke: stroke, Path: path}, nil
}

// Save writes stroke as the template for label, replacing any existing file.
// The file is written to a temporary name and renamed into place so readers
// never observe a partial template.
func (d *Dir) Save(ctx context.Context, label string, stroke model.Stroke) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if stroke == nil {
		stroke = model.Stroke{}
	}
	data, err := json.Marshal(stroke)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrWriteTemplate, label, err)
	}

	path := filepath.Join(d.path, FileName(label))
	if err := d.writeAtomic(path, data); err != nil {
		metrics.RecordPersistenceError("write")
		return fmt.Errorf("%w: %s: %w", ErrWriteTemplate, path, err)
	}
	return nil
}

// Delete removes the template file for label.
func (d *Dir) Delete(ctx context.Context, label string) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(d.path, FileName(label))
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrTemplateNotFound, label)
		}
		metrics.RecordPersistenceError("delete")
		return fmt.Errorf("%w: %s: %w", ErrWriteTemplate, path, err)
	}
	return nil
}

func (d *Dir) writeAtomic(path string, data []byte) error {
	if d.createDir {
		if err := os.MkdirAll(d.path, dirMode); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(d.path, filePrefix+"*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, d.fileMode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func readStroke(path string) (model.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadTemplate, path, err)
	}
	var stroke model.Stroke
	if err := json.Unmarshal(data, &stroke); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadTemplate, path, err)
	}
	return stroke, nil
}
