// Package github reads GitHub Actions state for the check_ci_status hook.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v56/github"
	"golang.org/x/oauth2"
)

// DefaultRunLimit is how many workflow runs are fetched when none is given.
const DefaultRunLimit = 5

type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// Run is the subset of a workflow run the CLI prints.
type Run struct {
	Number     int
	Title      string
	Status     string
	Conclusion string
	Branch     string
	URL        string
	CreatedAt  time.Time
}

func NewClient(token, owner, repo string) *Client {
	var client *github.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		client = github.NewClient(tc)
	} else {
		client = github.NewClient(nil)
	}

	return &Client{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// SetBaseURL points the client at another API root, such as GitHub Enterprise.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	c.client.BaseURL = u
	return nil
}

// Repository returns "owner/repo".
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// RecentRuns returns the newest workflow runs of the repository.
func (c *Client) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	opts := &github.ListWorkflowRunsOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	}

	runs, _, err := c.client.Actions.ListRepositoryWorkflowRuns(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs for %s: %w", c.Repository(), err)
	}

	out := make([]Run, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		if len(out) == limit {
			break
		}
		r := Run{
			Number:     run.GetRunNumber(),
			Title:      run.GetDisplayTitle(),
			Status:     run.GetStatus(),
			Conclusion: run.GetConclusion(),
			Branch:     run.GetHeadBranch(),
			URL:        run.GetHTMLURL(),
		}
		if r.Title == "" {
			r.Title = run.GetName()
		}
		if run.CreatedAt != nil {
			r.CreatedAt = run.CreatedAt.Time
		}
		out = append(out, r)
	}

	return out, nil
}

// FormatRuns renders runs one per line.
func FormatRuns(runs []Run) string {
	var info strings.Builder
	for _, run := range runs {
		info.WriteString(fmt.Sprintf("- Run #%d: %s", run.Number, run.Title))
		info.WriteString(fmt.Sprintf(", Status: %s", run.Status))
		if run.Conclusion != "" {
			info.WriteString(fmt.Sprintf(", Conclusion: %s", run.Conclusion))
		}
		info.WriteString(fmt.Sprintf(", Branch: %s", run.Branch))

		if !run.CreatedAt.IsZero() {
			info.WriteString(fmt.Sprintf(", Created: %s", run.CreatedAt.Format(time.RFC3339)))
		}

		if run.URL != "" {
			info.WriteString(fmt.Sprintf(", URL: %s", run.URL))
		}
		info.WriteString("\n")
	}

	return info.String()
}
