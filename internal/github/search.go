package github

import (
	"context"
	"encoding/json"
	"time"

	"github-repo-crawler/internal/model"
)

// MaxPageSize is the largest page the search connection serves.
const MaxPageSize = 100

const searchRepositoriesQuery = `query ($query: String!, $first: Int!, $cursor: String) {
  search(query: $query, type: REPOSITORY, first: $first, after: $cursor) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      ... on Repository {
        id
        databaseId
        name
        nameWithOwner
        owner {
          login
        }
        stargazerCount
        forkCount
        issues(states: OPEN) {
          totalCount
        }
        createdAt
        updatedAt
        isArchived
        primaryLanguage {
          name
        }
        diskUsage
      }
    }
  }
  rateLimit {
    remaining
    resetAt
  }
}`

// SearchPage is one normalized page of search results.
type SearchPage struct {
	Repositories []model.Repository
	// Dropped counts nodes that could not be normalized.
	Dropped     int
	HasNextPage bool
	EndCursor   string
}

type searchData struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool    `json:"hasNextPage"`
			EndCursor   *string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []json.RawMessage `json:"nodes"`
	} `json:"search"`
	RateLimit *struct {
		Remaining *int   `json:"remaining"`
		ResetAt   string `json:"resetAt"`
	} `json:"rateLimit"`
}

// SearchRepositories fetches one page of repositories matching query, starting after cursor.
// An empty cursor requests the first page.
func (c *Client) SearchRepositories(ctx context.Context, query, cursor string, first int) (*SearchPage, error) {
	if first <= 0 || first > MaxPageSize {
		first = MaxPageSize
	}
	variables := map[string]any{
		"query": query,
		"first": first,
	}
	if cursor != "" {
		variables["cursor"] = cursor
	}

	c.logger.Debug("Fetching search page", "cursor", cursor, "first", first)

	var data searchData
	if err := c.Execute(ctx, searchRepositoriesQuery, variables, &data); err != nil {
		return nil, err
	}

	if rl := data.RateLimit; rl != nil {
		if rl.Remaining != nil {
			c.quota.ObserveRemaining(*rl.Remaining)
		}
		if resetAt, err := time.Parse(time.RFC3339, rl.ResetAt); err == nil {
			c.quota.ResetAt = resetAt.UTC()
		}
	}

	repos, dropped := NormalizeNodes(data.Search.Nodes, c.logger)
	page := &SearchPage{
		Repositories: repos,
		Dropped:      dropped,
		HasNextPage:  data.Search.PageInfo.HasNextPage,
	}
	if data.Search.PageInfo.EndCursor != nil {
		page.EndCursor = *data.Search.PageInfo.EndCursor
	}
	return page, nil
}
