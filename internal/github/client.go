// Package github implements the pull-request side of the workflow against the
// GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/clintrovert/branchctl/pkg/types"
)

// Client wraps the GitHub API for one repository
type Client struct {
	apiClient *github.Client
	owner     string
	repo      string
	logger    *zap.Logger
}

// NewClient creates a new GitHub client
func NewClient(owner, repo, accessToken string, logger *zap.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		apiClient: github.NewClient(tc),
		owner:     owner,
		repo:      repo,
		logger:    logger,
	}
}

// ErrPolicyViolation marks a request the server rejected under a rule the
// local engine could not guarantee, such as branch protection racing another
// operator.
var ErrPolicyViolation = errors.New("policy violation")

// Create opens a pull request
func (c *Client) Create(ctx context.Context, base, head, title, body string) (*types.PRInfo, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(head),
		Base:  github.String(base),
		Body:  github.String(body),
	}

	pr, resp, err := c.apiClient.PullRequests.Create(ctx, c.owner, c.repo, newPR)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %v", ErrPolicyViolation, err)
		}
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	info := prInfo(pr)
	c.logger.Info("created pull request",
		zap.Int64("pr_number", info.PRNumber),
		zap.String("pr_url", info.PRURL),
		zap.String("base", base),
		zap.String("head", head),
	)

	return info, nil
}

// FindOpen returns the open pull request for (head, base), or nil when none
// exists. Used to keep to-staging and ship idempotent.
func (c *Client) FindOpen(ctx context.Context, head, base string) (*types.PRInfo, error) {
	opts := &github.PullRequestListOptions{
		State: "open",
		Head:  c.owner + ":" + head,
		Base:  base,
	}

	prs, _, err := c.apiClient.PullRequests.List(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	return prInfo(prs[0]), nil
}

// IsMerged reports whether a pull request has been merged
func (c *Client) IsMerged(ctx context.Context, number int64) (bool, error) {
	merged, _, err := c.apiClient.PullRequests.IsMerged(ctx, c.owner, c.repo, int(number))
	if err != nil {
		return false, fmt.Errorf("failed to check pull request %d: %w", number, err)
	}
	return merged, nil
}

func prInfo(pr *github.PullRequest) *types.PRInfo {
	return &types.PRInfo{
		PRNumber: int64(pr.GetNumber()),
		PRURL:    pr.GetHTMLURL(),
		Title:    pr.GetTitle(),
		Status:   pr.GetState(),
	}
}
