// Package gitrepo implements git operations for the workflow orchestrator on
// top of go-git. Merge and rev-list go through the git binary: go-git does not
// implement true merges, and shelling out keeps conflict behavior identical to
// what the operator sees in their own terminal.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/clintrovert/branchctl/pkg/types"
)

// Client wraps one local repository
type Client struct {
	repo   *git.Repository
	path   string
	remote string
	token  string
	logger *zap.Logger
}

// Open opens the repository containing path
func Open(path, remote, token string, logger *zap.Logger) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Client{
		repo:   repo,
		path:   path,
		remote: remote,
		token:  token,
		logger: logger,
	}, nil
}

// CurrentBranch returns the short name of the checked-out branch
func (c *Client) CurrentBranch() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:8])
	}
	return head.Name().Short(), nil
}

// IsDirty reports whether the working tree has uncommitted changes
func (c *Client) IsDirty() (bool, error) {
	wt, err := c.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read status: %w", err)
	}
	return !status.IsClean(), nil
}

// MergeInProgress reports whether a previous merge left the repository with
// a pending MERGE_HEAD
func (c *Client) MergeInProgress() (bool, error) {
	out, err := c.runGit(context.Background(), "rev-parse", "--git-dir")
	if err != nil {
		return false, fmt.Errorf("failed to locate git dir: %w", err)
	}
	gitDir := strings.TrimSpace(out)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(c.path, gitDir)
	}
	_, err = os.Stat(filepath.Join(gitDir, "MERGE_HEAD"))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Branches lists local branch names and remote-tracking names like
// "origin/feature/CU-x-y"
func (c *Client) Branches() ([]string, error) {
	iter, err := c.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if name.IsBranch() || name.IsRemote() {
			names = append(names, name.Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	return names, nil
}

// Tags lists all tag names
func (c *Client) Tags() ([]string, error) {
	iter, err := c.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return names, nil
}

// Fetch updates remote-tracking refs from the configured remote
func (c *Client) Fetch(ctx context.Context) error {
	err := c.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: c.remote,
		Auth:       c.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch from %s: %w", c.remote, err)
	}

	c.logger.Debug("fetched", zap.String("remote", c.remote))
	return nil
}

// Checkout switches the working tree to an existing branch
func (c *Client) Checkout(ref string) error {
	wt, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}

	c.logger.Debug("checked out", zap.String("branch", ref))
	return nil
}

// Pull fast-forwards the current branch from the configured remote
func (c *Client) Pull(ctx context.Context) error {
	wt, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: c.remote,
		Auth:       c.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to pull: %w", err)
	}

	c.logger.Debug("pulled", zap.String("remote", c.remote))
	return nil
}

// CreateBranch creates a new branch from the given base and checks it out
func (c *Client) CreateBranch(name, from string) error {
	if err := c.Checkout(from); err != nil {
		return err
	}

	wt, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}

	c.logger.Debug("created branch", zap.String("branch", name), zap.String("from", from))
	return nil
}

// Merge merges ref into the current branch with the given mode. A conflict
// leaves the working tree exactly as git leaves it, for manual resolution.
func (c *Client) Merge(ctx context.Context, ref string, mode types.MergeMode) error {
	args := []string{"merge"}
	switch mode {
	case types.MergeSquash:
		args = append(args, "--squash")
	default:
		args = append(args, "--no-ff")
	}
	args = append(args, ref)

	if _, err := c.runGit(ctx, args...); err != nil {
		return fmt.Errorf("failed to merge %s: %w", ref, err)
	}

	c.logger.Debug("merged", zap.String("ref", ref), zap.String("mode", string(mode)))
	return nil
}

// Push pushes a branch to the configured remote
func (c *Client) Push(ctx context.Context, ref string) error {
	err := c.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: c.remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", ref, ref)),
		},
		Auth: c.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s: %w", ref, err)
	}

	c.logger.Debug("pushed", zap.String("branch", ref), zap.String("remote", c.remote))
	return nil
}

// Tag creates a lightweight tag at HEAD
func (c *Client) Tag(name string) error {
	head, err := c.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}

	if _, err := c.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}

	c.logger.Debug("tagged", zap.String("tag", name))
	return nil
}

// RevListCount returns the number of commits reachable from b but not from a
func (c *Client) RevListCount(ctx context.Context, a, b string) (int, error) {
	out, err := c.runGit(ctx, "rev-list", "--count", a+".."+b)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits %s..%s: %w", a, b, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return n, nil
}

func (c *Client) auth() transport.AuthMethod {
	if c.token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: c.token}
}

func (c *Client) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.path

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
	}
	return stdout.String(), nil
}
