package syncrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	gittransport "github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/gofrs/flock"

	"tracktidy/internal/logging"
	"tracktidy/internal/services"
)

// storeFiles are the names synchronized between the data directory and the
// clone. They match the metadata store's on-disk layout.
var storeFiles = []string{"metadata.csv", "albums.csv"}

const commitMessage = "Update metadata from tracktidy"

// Coordinator owns the working clone of the replicated metadata remote.
type Coordinator struct {
	remoteURL string
	cloneDir  string
	dataDir   string
	lock      *flock.Flock
	logger    *slog.Logger

	degraded bool
}

// New constructs a coordinator. An empty remoteURL disables synchronization:
// Acquire, Pull, and Push become no-ops and the run operates purely locally.
func New(remoteURL, cloneDir, dataDir string, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		remoteURL: strings.TrimSpace(remoteURL),
		cloneDir:  cloneDir,
		dataDir:   dataDir,
		lock:      flock.New(cloneDir + ".lock"),
		logger:    logging.NewComponentLogger(logger, "sync"),
	}
}

// Enabled reports whether a remote is configured.
func (c *Coordinator) Enabled() bool {
	return c.remoteURL != ""
}

// Degraded reports whether the last pull failed, leaving the run on
// whatever state the local clone already had.
func (c *Coordinator) Degraded() bool {
	return c.degraded
}

// Acquire takes the run-scoped lock. If another run holds it, Acquire fails
// immediately with the lock-contention class; it never blocks.
func (c *Coordinator) Acquire() error {
	if !c.Enabled() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.cloneDir), 0o755); err != nil {
		return services.Wrap(services.ErrSync, "sync", "acquire", "prepare lock directory", err)
	}
	locked, err := c.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrSync, "sync", "acquire", "take lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrLockContention, "sync", "acquire",
			"another run is synchronizing against "+c.remoteURL, nil)
	}
	return nil
}

// Release drops the run-scoped lock.
func (c *Coordinator) Release() {
	if !c.Enabled() {
		return
	}
	if err := c.lock.Unlock(); err != nil {
		c.logger.Warn("failed to release sync lock", logging.Error(err))
	}
}

// Pull fast-forwards the clone and copies the store files into the data
// directory. Failure is recoverable: the coordinator flags itself degraded
// and the run proceeds on existing local state.
func (c *Coordinator) Pull(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	c.degraded = false

	repo, err := c.ensureClone(ctx)
	if err != nil {
		c.degraded = true
		return services.Wrap(services.ErrSync, "sync", "pull", "prepare clone", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		c.degraded = true
		return services.Wrap(services.ErrSync, "sync", "pull", "open worktree", err)
	}
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		// A fresh remote with no commits pulls as an error; still usable.
		c.degraded = true
		c.logger.Warn("pull failed; continuing on local clone",
			logging.Error(err),
			logging.String("remote", c.remoteURL))
	}

	for _, name := range storeFiles {
		if err := copyIfExists(filepath.Join(c.cloneDir, name), filepath.Join(c.dataDir, name)); err != nil {
			c.degraded = true
			return services.Wrap(services.ErrSync, "sync", "pull", name, err)
		}
	}
	if !c.degraded {
		c.logger.Info("metadata synchronized from remote")
	}
	return nil
}

// Push copies the store files into the clone, commits, and transmits.
// Failure is recoverable and reported: a commit that cannot be pushed stays
// local and goes out on a later run.
func (c *Coordinator) Push(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	repo, err := c.ensureClone(ctx)
	if err != nil {
		return services.Wrap(services.ErrSync, "sync", "push", "prepare clone", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return services.Wrap(services.ErrSync, "sync", "push", "open worktree", err)
	}

	for _, name := range storeFiles {
		if err := copyIfExists(filepath.Join(c.dataDir, name), filepath.Join(c.cloneDir, name)); err != nil {
			return services.Wrap(services.ErrSync, "sync", "push", name, err)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return services.Wrap(services.ErrSync, "sync", "push", "status", err)
	}
	if status.IsClean() {
		c.logger.Info("no metadata changes to push")
		return nil
	}

	for _, name := range storeFiles {
		if _, err := os.Stat(filepath.Join(c.cloneDir, name)); err == nil {
			if _, err := worktree.Add(name); err != nil {
				return services.Wrap(services.ErrSync, "sync", "push", "stage "+name, err)
			}
		}
	}

	_, err = worktree.Commit(commitMessage, &git.CommitOptions{
		Author: &object.Signature{Name: "tracktidy", Email: "tracktidy@localhost", When: time.Now()},
	})
	if err != nil {
		return services.Wrap(services.ErrSync, "sync", "push", "commit", err)
	}

	if err := repo.PushContext(ctx, &git.PushOptions{}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.logger.Warn("push failed; changes committed locally and will go out on a later run",
			logging.Error(err),
			logging.String("remote", c.remoteURL))
		return services.Wrap(services.ErrSync, "sync", "push", "transmit", err)
	}
	c.logger.Info("metadata pushed to remote")
	return nil
}

// ensureClone opens the working clone, creating or re-creating it as needed.
// A directory that exists but is not a repository is discarded and cloned
// fresh. An empty remote is initialized locally with origin configured.
func (c *Coordinator) ensureClone(ctx context.Context) (*git.Repository, error) {
	repo, err := git.PlainOpen(c.cloneDir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open clone: %w", err)
	}

	if _, statErr := os.Stat(c.cloneDir); statErr == nil {
		if err := os.RemoveAll(c.cloneDir); err != nil {
			return nil, fmt.Errorf("discard stale clone dir: %w", err)
		}
	}

	c.logger.Info("cloning metadata repository", logging.String("remote", c.remoteURL))
	repo, err = git.PlainCloneContext(ctx, c.cloneDir, false, &git.CloneOptions{URL: c.remoteURL})
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, gittransport.ErrEmptyRemoteRepository) {
		return nil, fmt.Errorf("clone %s: %w", c.remoteURL, err)
	}

	repo, err = git.PlainInit(c.cloneDir, false)
	if err != nil {
		return nil, fmt.Errorf("init clone for empty remote: %w", err)
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{c.remoteURL}})
	if err != nil {
		return nil, fmt.Errorf("configure origin: %w", err)
	}
	return repo, nil
}

func copyIfExists(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
