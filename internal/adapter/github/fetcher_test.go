package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gitworth/internal/common"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockGitHubServer 创建一个模拟的 GitHub API 服务器，并让抓取器指向它
func setupMockGitHubServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Fetcher) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := NewFetcher(Config{
		ProfileURL: server.URL + "/users/",
		ReposURL:   server.URL + "/users/{}/repos",
		Timeout:    2 * time.Second,
	})
	return server, fetcher
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(Config{})

	assert.NotNil(t, f.client)
	assert.Equal(t, DefaultProfileURL, f.profileURL)
	assert.Equal(t, DefaultReposURL, f.reposURL)
	assert.Equal(t, userAgent, f.client.UserAgent)
}

func TestFetcher_FetchProfile(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantName        *string
		wantFollowers   int
		wantPublicRepos int
	}{
		{
			name:            "完整资料",
			body:            `{"login":"octocat","name":"The Octocat","followers":100,"public_repos":20}`,
			wantName:        github.String("The Octocat"),
			wantFollowers:   100,
			wantPublicRepos: 20,
		},
		{
			name:            "name 为 null",
			body:            `{"login":"octocat","name":null,"followers":100,"public_repos":20}`,
			wantFollowers:   100,
			wantPublicRepos: 20,
		},
		{
			name: "缺少数字字段",
			body: `{"login":"octocat"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/users/octocat", r.URL.Path)
				assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
				assert.Empty(t, r.Header.Get("Authorization"))

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			profile, err := fetcher.FetchProfile(context.Background(), "octocat")
			require.NoError(t, err)
			assert.Equal(t, "octocat", profile.Login)
			assert.Equal(t, tt.wantName, profile.Name)
			assert.Equal(t, tt.wantFollowers, profile.Followers)
			assert.Equal(t, tt.wantPublicRepos, profile.PublicRepos)
		})
	}
}

func TestFetcher_FetchRepos(t *testing.T) {
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		// 只取第一页，不带分页参数
		assert.Empty(t, r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":"a","stargazers_count":50,"forks_count":10},
			{"name":"b","stargazers_count":25,"forks_count":5},
			{"name":"c"}
		]`))
	})

	repos, err := fetcher.FetchRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 3)

	assert.Equal(t, 50, repos[0].StargazersCount)
	assert.Equal(t, 10, repos[0].ForksCount)
	assert.Equal(t, 25, repos[1].StargazersCount)
	assert.Equal(t, 5, repos[1].ForksCount)
	assert.Equal(t, 0, repos[2].StargazersCount)
	assert.Equal(t, 0, repos[2].ForksCount)
}

func TestFetcher_FetchRepos_Empty(t *testing.T) {
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	repos, err := fetcher.FetchRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestFetcher_UsernameIsEscaped(t *testing.T) {
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/a%2Fb/repos", r.URL.EscapedPath())
		w.Write([]byte(`[]`))
	})

	_, err := fetcher.FetchRepos(context.Background(), "a/b")
	assert.NoError(t, err)
}

func TestFetcher_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "GitHub API 返回 403 Forbidden", statusCode: http.StatusForbidden, body: `{"message": "API rate limit exceeded"}`},
		{name: "GitHub API 返回 404 Not Found", statusCode: http.StatusNotFound, body: `{"message": "Not Found"}`},
		{name: "GitHub API 返回 500 内部错误", statusCode: http.StatusInternalServerError, body: `{"message": "Internal server error"}`},
		{name: "GitHub API 返回 202 Accepted", statusCode: http.StatusAccepted, body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})

			profile, err := fetcher.FetchProfile(context.Background(), "octocat")
			assert.Nil(t, profile)
			var se *common.StatusError
			require.True(t, errors.As(err, &se), "unexpected error: %v", err)
			assert.Equal(t, ResourceProfile, se.Resource)
			assert.Equal(t, tt.statusCode, se.StatusCode)

			repos, err := fetcher.FetchRepos(context.Background(), "octocat")
			assert.Nil(t, repos)
			require.True(t, errors.As(err, &se), "unexpected error: %v", err)
			assert.Equal(t, ResourceRepos, se.Resource)
			assert.Equal(t, tt.statusCode, se.StatusCode)
		})
	}
}

func TestFetcher_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	fetcher := NewFetcher(Config{
		ProfileURL: server.URL + "/users/",
		ReposURL:   server.URL + "/users/{}/repos",
		Timeout:    time.Second,
	})
	// 关闭服务器，让连接被拒绝
	server.Close()

	profile, err := fetcher.FetchProfile(context.Background(), "octocat")
	assert.Nil(t, profile)
	require.Error(t, err)
	assert.False(t, common.IsStatus(err, http.StatusNotFound))
	var se *common.StatusError
	assert.False(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "GitHub API 调用失败")
}

func TestFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher := NewFetcher(Config{
		ProfileURL: server.URL + "/users/",
		ReposURL:   server.URL + "/users/{}/repos",
		Timeout:    50 * time.Millisecond,
	})

	_, err := fetcher.FetchProfile(context.Background(), "octocat")
	require.Error(t, err)
	var se *common.StatusError
	assert.False(t, errors.As(err, &se))
}

func TestFetcher_MalformedBody(t *testing.T) {
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login": `))
	})

	profile, err := fetcher.FetchProfile(context.Background(), "octocat")
	assert.Nil(t, profile)
	require.Error(t, err)
	var se *common.StatusError
	assert.False(t, errors.As(err, &se))
}

func TestFetcher_ContextCancellation(t *testing.T) {
	var hits int32
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repos, err := fetcher.FetchRepos(ctx, "octocat")
	assert.Nil(t, repos)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}
