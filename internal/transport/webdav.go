package transport

import (
	"context"
	"io"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/studio-b12/gowebdav"

	"tracktidy/internal/services"
)

// WebDAV serves a collection behind a WebDAV endpoint. Loads download into a
// scoped temp directory; saves upload the working copy back over the
// original.
type WebDAV struct {
	client  *gowebdav.Client
	tempDir string
}

// NewWebDAV constructs the remote transport. tempDir receives working copies
// and must be writable.
func NewWebDAV(url, username, password, tempDir string) *WebDAV {
	return &WebDAV{
		client:  gowebdav.NewClient(url, username, password),
		tempDir: tempDir,
	}
}

func (w *WebDAV) List(ctx context.Context, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		w.walk(ctx, root, "", yield)
	}
}

// walk recurses through the remote tree yielding relative audio paths. It
// returns false once the consumer stops.
func (w *WebDAV) walk(ctx context.Context, root, rel string, yield func(string, error) bool) bool {
	if ctx.Err() != nil {
		yield("", services.Wrap(services.ErrTransport, "webdav", "list", root, ctx.Err()))
		return false
	}
	entries, err := w.client.ReadDir(path.Join(root, rel))
	if err != nil {
		yield("", services.Wrap(services.ErrTransport, "webdav", "list", path.Join(root, rel), err))
		return false
	}
	for _, entry := range entries {
		child := path.Join(rel, entry.Name())
		if entry.IsDir() {
			if !w.walk(ctx, root, child, yield) {
				return false
			}
			continue
		}
		if !IsAudioPath(entry.Name()) {
			continue
		}
		if !yield(child, nil) {
			return false
		}
	}
	return true
}

func (w *WebDAV) Load(ctx context.Context, root, rel string) (WorkingCopy, error) {
	if err := ctx.Err(); err != nil {
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}
	localPath := filepath.Join(w.tempDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}

	stream, err := w.client.ReadStream(path.Join(root, rel))
	if err != nil {
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}
	defer stream.Close()

	out, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}
	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(localPath)
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(localPath)
		return WorkingCopy{}, services.Wrap(services.ErrTransport, "webdav", "load", rel, err)
	}

	return WorkingCopy{
		Path:    localPath,
		cleanup: func() error { return os.Remove(localPath) },
	}, nil
}

func (w *WebDAV) Save(ctx context.Context, root, rel string, copy WorkingCopy) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransport, "webdav", "save", rel, err)
	}
	in, err := os.Open(copy.Path)
	if err != nil {
		return services.Wrap(services.ErrTransport, "webdav", "save", rel, err)
	}
	defer in.Close()

	if err := w.client.WriteStream(path.Join(root, rel), in, 0o644); err != nil {
		return services.Wrap(services.ErrTransport, "webdav", "save", rel, err)
	}
	return nil
}
