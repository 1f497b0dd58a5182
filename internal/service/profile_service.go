package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"gitworth/internal/adapter/analyzer"
	"gitworth/internal/common"
	"gitworth/internal/domain"
	"gitworth/internal/port"
)

// 上游资源名称，用于指标标签
const (
	resourceProfile = "profile"
	resourceRepos   = "repos"
)

// cacheKey 生成用户资料的缓存键
func cacheKey(username string) string {
	return "gitworth:profile:" + username
}

// ProfileService 处理 /profile/{username} 的业务逻辑:
// 查缓存 -> 未命中时拉取资料和仓库 -> 计算评分 -> 写缓存
type ProfileService struct {
	fetcher  port.Fetcher
	cache    port.Cache
	observer port.Observer
}

// NewProfileService 创建新的资料服务，observer 可以为 nil
// cache 只在 GetProfile 中使用，只调用 Compute 时可以为 nil
func NewProfileService(fetcher port.Fetcher, cache port.Cache, observer port.Observer) *ProfileService {
	return &ProfileService{
		fetcher:  fetcher,
		cache:    cache,
		observer: observer,
	}
}

// GetProfile 返回 JSON 编码后的资料摘要
// 同一用户名在缓存有效期内返回完全相同的字节，且不会再访问上游
func (s *ProfileService) GetProfile(ctx context.Context, username string) ([]byte, error) {
	if strings.TrimSpace(username) == "" {
		return nil, common.NewError(common.ErrCodeInvalidInput, "username is required")
	}

	key := cacheKey(username)
	if payload, ok := s.cache.Get(ctx, key); ok {
		s.observeCache(true)
		return payload, nil
	}
	s.observeCache(false)

	summary, err := s.Compute(ctx, username)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "编码响应失败", err)
	}

	// 只缓存成功的结果
	s.cache.Set(ctx, key, payload)
	return payload, nil
}

// Compute 不经过缓存，直接拉取上游数据并计算资料摘要
func (s *ProfileService) Compute(ctx context.Context, username string) (*domain.ProfileSummary, error) {
	var (
		wg         sync.WaitGroup
		profile    *domain.Profile
		repos      []*domain.Repo
		profileErr error
		reposErr   error
	)

	// 两次请求互不依赖，并发发出，全部返回后再判断状态
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = s.fetcher.FetchProfile(ctx, username)
		s.observeUpstream(resourceProfile, profileErr)
	}()
	go func() {
		defer wg.Done()
		repos, reposErr = s.fetcher.FetchRepos(ctx, username)
		s.observeUpstream(resourceRepos, reposErr)
	}()
	wg.Wait()

	if err := classify(profileErr, reposErr); err != nil {
		return nil, err
	}

	return &domain.ProfileSummary{
		Username:      profile.Login,
		Name:          profile.Name,
		Followers:     profile.Followers,
		PublicRepos:   profile.PublicRepos,
		StarsReceived: analyzer.SumStars(repos),
		ForksReceived: analyzer.SumForks(repos),
		GitworthScore: analyzer.CalculateGitworth(profile, repos),
	}, nil
}

// classify 把两次上游调用的结果归类为对外错误
//  1. 任一调用在传输层失败 -> 500，带上失败描述
//  2. 资料接口返回 403 -> 速率限制 (只看资料接口)
//  3. 任一调用返回其它非 200 状态 -> 用户不存在
func classify(profileErr, reposErr error) error {
	for _, err := range []error{profileErr, reposErr} {
		if err != nil && !isStatusError(err) {
			return common.WrapError(common.ErrCodeUpstreamTransport, "upstream request failed", err)
		}
	}

	if common.IsStatus(profileErr, http.StatusForbidden) {
		return common.WrapError(common.ErrCodeRateLimited, common.MsgRateLimited, profileErr)
	}

	if err := errors.Join(profileErr, reposErr); err != nil {
		return common.WrapError(common.ErrCodeNotFound, common.MsgNotFound, err)
	}
	return nil
}

func isStatusError(err error) bool {
	var se *common.StatusError
	return errors.As(err, &se)
}

func (s *ProfileService) observeCache(hit bool) {
	if s.observer != nil {
		s.observer.ObserveCacheLookup(hit)
	}
}

func (s *ProfileService) observeUpstream(resource string, err error) {
	if s.observer == nil {
		return
	}

	outcome := "ok"
	var se *common.StatusError
	switch {
	case err == nil:
	case errors.As(err, &se):
		outcome = fmt.Sprintf("status_%d", se.StatusCode)
	default:
		outcome = "transport_error"
	}
	s.observer.ObserveUpstream(resource, outcome)
}
