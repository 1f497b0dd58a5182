package port

import (
	"context"

	"gitworth/internal/domain"
)

// Fetcher (抓取器): 负责从 GitHub 兼容的 API 拉取用户数据
// 非 200 的响应以 *common.StatusError 返回，其余错误视为传输层失败
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)

	// FetchRepos 只取第一页，不做分页
	FetchRepos(ctx context.Context, username string) ([]*domain.Repo, error)
}

// Cache (缓存): 按用户名缓存完整响应，过期条目绝不能再返回
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Observer (观察者): 上报缓存命中和上游调用情况，可以为 nil
type Observer interface {
	ObserveCacheLookup(hit bool)
	ObserveUpstream(resource, outcome string)
}

// ProfileProvider 提供 JSON 编码后的资料摘要，HTTP 层依赖它
type ProfileProvider interface {
	GetProfile(ctx context.Context, username string) ([]byte, error)
}
