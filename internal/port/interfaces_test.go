package port

import (
	"context"
	"testing"

	"gitworth/internal/domain"

	"github.com/stretchr/testify/assert"
)

type stubFetcher struct{}

func (stubFetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	return &domain.Profile{Login: username}, nil
}

func (stubFetcher) FetchRepos(ctx context.Context, username string) ([]*domain.Repo, error) {
	return nil, nil
}

type stubCache map[string][]byte

func (c stubCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c[key]
	return v, ok
}

func (c stubCache) Set(ctx context.Context, key string, value []byte) {
	c[key] = value
}

func TestInterfaces(t *testing.T) {
	// 通过编译确保接口定义和桩实现一致
	var f Fetcher = stubFetcher{}
	var c Cache = stubCache{}

	profile, err := f.FetchProfile(context.Background(), "octocat")
	assert.NoError(t, err)
	assert.Equal(t, "octocat", profile.Login)

	c.Set(context.Background(), "k", []byte("v"))
	v, ok := c.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}
