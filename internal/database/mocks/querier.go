// Package mocks provides a testify mock of database.Querier.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github-repo-crawler/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) CountRepositories(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) CreateCrawlSession(ctx context.Context, arg database.CreateCrawlSessionParams) (database.CrawlSession, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.CrawlSession), args.Error(1)
}
func (m *MockQuerier) CreateRepository(ctx context.Context, arg database.CreateRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) GetLatestCrawlSession(ctx context.Context) (database.CrawlSession, error) {
	args := m.Called(ctx)
	return args.Get(0).(database.CrawlSession), args.Error(1)
}
func (m *MockQuerier) GetRepository(ctx context.Context, githubID int64) (database.Repository, error) {
	args := m.Called(ctx, githubID)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) ListCrawlSessions(ctx context.Context, limit int32) ([]database.CrawlSession, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]database.CrawlSession), args.Error(1)
}
func (m *MockQuerier) ListTopRepositories(ctx context.Context, arg database.ListTopRepositoriesParams) ([]database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.Repository), args.Error(1)
}
func (m *MockQuerier) UpdateRepositoryActivity(ctx context.Context, arg database.UpdateRepositoryActivityParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
