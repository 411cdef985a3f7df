package transport

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"

	"tracktidy/internal/services"
)

// Local serves a collection that already lives on this machine's filesystem.
// Load and Save are no-ops: the working copy is the file itself.
type Local struct{}

// NewLocal constructs the local transport.
func NewLocal() Local {
	return Local{}
}

func (Local) List(ctx context.Context, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if entry.IsDir() || !IsAudioPath(path) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !yield(filepath.ToSlash(rel), nil) {
				return fs.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			yield("", services.Wrap(services.ErrTransport, "local", "list", root, walkErr))
		}
	}
}

func (Local) Load(_ context.Context, root, rel string) (WorkingCopy, error) {
	return WorkingCopy{Path: filepath.Join(root, filepath.FromSlash(rel))}, nil
}

func (Local) Save(context.Context, string, string, WorkingCopy) error {
	// The working copy is the collection file; nothing to publish.
	return nil
}
