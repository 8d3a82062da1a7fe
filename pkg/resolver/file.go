package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for snapshot files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// FileResolver reads a snapshot file written by the package manager
type FileResolver struct {
	Root string
	Path string
}

// NewFileResolver creates a resolver for path. A relative path is taken
// relative to root.
func NewFileResolver(root, path string) *FileResolver {
	return &FileResolver{Root: root, Path: path}
}

// Location returns the absolute or root-relative path of the snapshot file
func (r *FileResolver) Location() string {
	if filepath.IsAbs(r.Path) || r.Root == "" {
		return r.Path
	}
	return filepath.Join(r.Root, r.Path)
}

// Resolve implements Resolver.
//
// The decoders are strict: unknown fields and trailing data are errors, so a
// typo in a hand-written snapshot is not silently ignored.
func (r *FileResolver) Resolve(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.Location()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	workspaces, err := decodeSnapshot(path, data)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Root: r.Root, Workspaces: workspaces}, nil
}

func decodeSnapshot(path string, data []byte) (map[workspace.Name]WorkspaceInfo, error) {
	var workspaces map[workspace.Name]WorkspaceInfo

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&workspaces); err != nil {
			return nil, fmt.Errorf("parse snapshot json: %w", err)
		}
		var trailing any
		if err := dec.Decode(&trailing); err != io.EOF {
			if err == nil {
				return nil, fmt.Errorf("parse snapshot json: trailing data")
			}
			return nil, fmt.Errorf("parse snapshot json: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&workspaces); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parse snapshot yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if workspaces == nil {
		workspaces = make(map[workspace.Name]WorkspaceInfo)
	}
	return workspaces, nil
}
