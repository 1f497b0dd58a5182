package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitworth/internal/common"
	"gitworth/internal/domain"

	"github.com/google/go-github/v53/github"
)

const (
	// DefaultProfileURL 后面直接拼接用户名
	DefaultProfileURL = "https://api.github.com/users/"
	// DefaultReposURL 中的 {} 会被替换为用户名
	DefaultReposURL = "https://api.github.com/users/{}/repos"

	usernamePlaceholder = "{}"
	userAgent           = "gitworth"
)

// 资源名称，用于错误信息和指标
const (
	ResourceProfile = "profile"
	ResourceRepos   = "repos"
)

// Config 抓取器配置
type Config struct {
	ProfileURL string
	ReposURL   string
	Timeout    time.Duration
}

// Fetcher 实现了 port.Fetcher 接口
type Fetcher struct {
	client     *github.Client
	profileURL string
	reposURL   string
}

// NewFetcher 初始化 GitHub 客户端
// 不做鉴权，匿名访问 (限制 60次/小时)
func NewFetcher(cfg Config) *Fetcher {
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = DefaultProfileURL
	}
	if cfg.ReposURL == "" {
		cfg.ReposURL = DefaultReposURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := github.NewClient(&http.Client{Timeout: cfg.Timeout})
	client.UserAgent = userAgent

	return &Fetcher{
		client:     client,
		profileURL: cfg.ProfileURL,
		reposURL:   cfg.ReposURL,
	}
}

// FetchProfile 获取用户资料
func (f *Fetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	var user github.User
	if err := f.get(ctx, ResourceProfile, f.profileURL+url.PathEscape(username), &user); err != nil {
		return nil, err
	}

	// Getter 在字段缺失时返回零值
	return &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.Name,
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
	}, nil
}

// FetchRepos 获取用户的仓库列表 (只取第一页)
func (f *Fetcher) FetchRepos(ctx context.Context, username string) ([]*domain.Repo, error) {
	target := strings.ReplaceAll(f.reposURL, usernamePlaceholder, url.PathEscape(username))

	var items []*github.Repository
	if err := f.get(ctx, ResourceRepos, target, &items); err != nil {
		return nil, err
	}

	repos := make([]*domain.Repo, 0, len(items))
	for _, item := range items {
		repos = append(repos, &domain.Repo{
			StargazersCount: item.GetStargazersCount(),
			ForksCount:      item.GetForksCount(),
		})
	}
	return repos, nil
}

// get 发起一次 GET 请求并把响应体解码到 v
// 非 200 状态码返回 *common.StatusError，其它失败原样包装返回
func (f *Fetcher) get(ctx context.Context, resource, target string, v interface{}) error {
	req, err := f.client.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("构造 %s 请求失败: %w", resource, err)
	}

	resp, err := f.client.Do(ctx, req, v)
	if resp != nil && resp.Response != nil && resp.StatusCode != http.StatusOK {
		return &common.StatusError{Resource: resource, StatusCode: resp.StatusCode}
	}
	if err != nil {
		return fmt.Errorf("GitHub API 调用失败 (%s): %w", resource, err)
	}
	return nil
}
