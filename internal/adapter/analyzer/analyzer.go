package analyzer

import (
	"math"

	"gitworth/internal/domain"
)

// 各项指标的权重
const (
	FollowerWeight   = 3
	PublicRepoWeight = 2
	StarWeight       = 4
	ForkWeight       = 1
)

// MaxRawScore 是假定的原始分上限，原始分达到该值时归一化结果封顶为 100
const MaxRawScore = 10000

// MaxScore 是归一化后的最高分
const MaxScore = 100.0

// SumStars 统计所有仓库收到的 star 总数
func SumStars(repos []*domain.Repo) int {
	total := 0
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		total += repo.StargazersCount
	}
	return total
}

// SumForks 统计所有仓库被 fork 的总数
func SumForks(repos []*domain.Repo) int {
	total := 0
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		total += repo.ForksCount
	}
	return total
}

// RawScore 计算归一化之前的加权和
// 不对负数做任何保护，上游出现负数时原样参与运算
func RawScore(profile *domain.Profile, repos []*domain.Repo) int64 {
	var followers, publicRepos int64
	if profile != nil {
		followers = int64(profile.Followers)
		publicRepos = int64(profile.PublicRepos)
	}
	stars := int64(SumStars(repos))
	forks := int64(SumForks(repos))

	return followers*FollowerWeight +
		publicRepos*PublicRepoWeight +
		stars*StarWeight +
		forks*ForkWeight
}

// CalculateGitworth 计算 0-100 的 gitworth 评分，保留两位小数
// 这是一个纯函数，任何输入都不会失败
func CalculateGitworth(profile *domain.Profile, repos []*domain.Repo) float64 {
	raw := RawScore(profile, repos)
	normalized := math.Min(MaxScore, float64(raw)/MaxRawScore*100)
	return roundTo2(normalized)
}

// roundTo2 四舍五入到两位小数 (0.5 远离零)
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
