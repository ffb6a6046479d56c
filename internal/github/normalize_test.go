package github

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawNodes(t *testing.T, nodes ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(nodes))
	for i, n := range nodes {
		out[i] = json.RawMessage(n)
	}
	return out
}

func TestNormalizeNodes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("maps every field of a complete node", func(t *testing.T) {
		nodes := rawNodes(t, `{
			"id": "R_kgDOA", "databaseId": 28457823, "name": "freeCodeCamp",
			"nameWithOwner": "freeCodeCamp/freeCodeCamp", "owner": {"login": "freeCodeCamp"},
			"stargazerCount": 400000, "forkCount": 38000, "issues": {"totalCount": 200},
			"createdAt": "2014-12-24T17:49:19Z", "updatedAt": "2024-05-01T10:00:00Z",
			"isArchived": false, "primaryLanguage": {"name": "TypeScript"}, "diskUsage": 512000
		}`)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 1)
		assert.Zero(t, dropped)
		r := repos[0]
		assert.Equal(t, int64(28457823), r.GithubID)
		assert.Equal(t, "freeCodeCamp", r.Name)
		assert.Equal(t, "freeCodeCamp/freeCodeCamp", r.FullName)
		assert.Equal(t, "freeCodeCamp", r.OwnerLogin)
		assert.Equal(t, 400000, r.StarsCount)
		assert.Equal(t, 38000, r.ForksCount)
		assert.Equal(t, 200, r.OpenIssuesCount)
		assert.Equal(t, 512000, r.SizeKB)
		assert.False(t, r.Archived)
		require.NotNil(t, r.Language)
		assert.Equal(t, "TypeScript", *r.Language)
		require.NotNil(t, r.RepoCreatedAt)
		assert.Equal(t, time.Date(2014, 12, 24, 17, 49, 19, 0, time.UTC), *r.RepoCreatedAt)
		require.NotNil(t, r.RepoUpdatedAt)
		assert.Equal(t, time.UTC, r.RepoUpdatedAt.Location())
	})

	t.Run("defaults missing nested structures", func(t *testing.T) {
		nodes := rawNodes(t, `{"databaseId": 7, "name": "bare", "owner": null, "primaryLanguage": null, "issues": null}`)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 1)
		assert.Zero(t, dropped)
		assert.Equal(t, "", repos[0].OwnerLogin)
		assert.Nil(t, repos[0].Language)
		assert.Zero(t, repos[0].OpenIssuesCount)
		assert.Zero(t, repos[0].SizeKB)
		assert.Nil(t, repos[0].RepoCreatedAt)
		assert.Nil(t, repos[0].RepoUpdatedAt)
	})

	t.Run("malformed timestamps become nil without dropping the record", func(t *testing.T) {
		nodes := rawNodes(t, `{"databaseId": 8, "createdAt": "yesterday", "updatedAt": ""}`)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 1)
		assert.Zero(t, dropped)
		assert.Nil(t, repos[0].RepoCreatedAt)
		assert.Nil(t, repos[0].RepoUpdatedAt)
	})

	t.Run("timestamps of the wrong type become nil without dropping the record", func(t *testing.T) {
		nodes := rawNodes(t,
			`{"databaseId": 7, "createdAt": 1700000000, "updatedAt": {"at": "2024-01-01T00:00:00Z"}}`,
			`{"databaseId": 8, "createdAt": "not-a-date", "updatedAt": null}`,
		)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 2)
		assert.Zero(t, dropped)
		assert.Equal(t, int64(7), repos[0].GithubID)
		assert.Nil(t, repos[0].RepoCreatedAt)
		assert.Nil(t, repos[0].RepoUpdatedAt)
		assert.Equal(t, int64(8), repos[1].GithubID)
		assert.Nil(t, repos[1].RepoCreatedAt)
	})

	t.Run("drops nodes without an identifier", func(t *testing.T) {
		nodes := rawNodes(t,
			`{"id": "R_missing", "name": "no-id"}`,
			`{"databaseId": 0, "name": "zero-id"}`,
			`{"databaseId": 9, "name": "kept"}`,
		)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 1)
		assert.Equal(t, 2, dropped)
		assert.Equal(t, "kept", repos[0].Name)
	})

	t.Run("one bad node does not discard the page", func(t *testing.T) {
		nodes := rawNodes(t,
			`{"databaseId": 1, "name": "first"}`,
			`null`,
			`{"databaseId": "not-a-number"}`,
			`{"databaseId": 2, "stargazerCount": "lots"}`,
			`{"databaseId": 3, "name": "last"}`,
		)

		repos, dropped := NormalizeNodes(nodes, logger)

		require.Len(t, repos, 2)
		assert.Equal(t, 3, dropped)
		assert.Equal(t, "first", repos[0].Name)
		assert.Equal(t, "last", repos[1].Name)
	})

	t.Run("empty primary language name is treated as absent", func(t *testing.T) {
		repos, _ := NormalizeNodes(rawNodes(t, `{"databaseId": 4, "primaryLanguage": {"name": ""}}`), logger)

		require.Len(t, repos, 1)
		assert.Nil(t, repos[0].Language)
	})
}
