package github

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github-repo-crawler/internal/model"
)

type repositoryNode struct {
	ID             string          `json:"id"`
	DatabaseID     *int64          `json:"databaseId"`
	Name           string          `json:"name"`
	NameWithOwner  string          `json:"nameWithOwner"`
	StargazerCount int             `json:"stargazerCount"`
	ForkCount      int             `json:"forkCount"`
	CreatedAt      json.RawMessage `json:"createdAt"`
	UpdatedAt      json.RawMessage `json:"updatedAt"`
	IsArchived     bool            `json:"isArchived"`
	DiskUsage      *int            `json:"diskUsage"`
	Owner          *struct {
		Login string `json:"login"`
	} `json:"owner"`
	PrimaryLanguage *struct {
		Name string `json:"name"`
	} `json:"primaryLanguage"`
	Issues *struct {
		TotalCount int `json:"totalCount"`
	} `json:"issues"`
}

// NormalizeNodes converts raw search nodes into canonical records.
//
// Each node is decoded on its own so a malformed node is skipped without
// affecting the rest of the page. Nodes without a database id are dropped and
// logged with their node id for review; no substitute identifier is derived.
// The second return value is the number of nodes dropped.
func NormalizeNodes(nodes []json.RawMessage, logger *slog.Logger) ([]model.Repository, int) {
	repos := make([]model.Repository, 0, len(nodes))
	dropped := 0

	for i, raw := range nodes {
		if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			dropped++
			continue
		}

		var node repositoryNode
		if err := json.Unmarshal(raw, &node); err != nil {
			logger.Warn("Skipping malformed repository node", "index", i, "error", err)
			dropped++
			continue
		}

		repo, ok := toCanonicalRepository(&node)
		if !ok {
			logger.Warn("Repository node has no database id, flagged for review",
				"node_id", node.ID, "full_name", node.NameWithOwner)
			dropped++
			continue
		}
		repos = append(repos, repo)
	}

	return repos, dropped
}

func toCanonicalRepository(n *repositoryNode) (model.Repository, bool) {
	if n.DatabaseID == nil || *n.DatabaseID <= 0 {
		return model.Repository{}, false
	}

	repo := model.Repository{
		GithubID:      *n.DatabaseID,
		Name:          n.Name,
		FullName:      n.NameWithOwner,
		StarsCount:    n.StargazerCount,
		ForksCount:    n.ForkCount,
		RepoCreatedAt: parseTimestamp(n.CreatedAt),
		RepoUpdatedAt: parseTimestamp(n.UpdatedAt),
		Archived:      n.IsArchived,
	}
	if n.Owner != nil {
		repo.OwnerLogin = n.Owner.Login
	}
	if n.Issues != nil {
		repo.OpenIssuesCount = n.Issues.TotalCount
	}
	if n.PrimaryLanguage != nil && n.PrimaryLanguage.Name != "" {
		lang := n.PrimaryLanguage.Name
		repo.Language = &lang
	}
	if n.DiskUsage != nil {
		repo.SizeKB = *n.DiskUsage
	}
	return repo, true
}

// parseTimestamp returns nil for absent, non-string or malformed values.
func parseTimestamp(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
