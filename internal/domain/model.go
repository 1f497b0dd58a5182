package domain

// Profile 是上游返回的用户资料，缺失的数字字段按 0 处理
type Profile struct {
	Login       string
	Name        *string // 上游可能返回 null
	Followers   int
	PublicRepos int
}

// Repo 只保留计算评分需要的两个计数
type Repo struct {
	StargazersCount int
	ForksCount      int
}

// ProfileSummary 是 GET /profile/{username} 成功时返回的精简结果
type ProfileSummary struct {
	Username      string  `json:"username"`
	Name          *string `json:"name"`
	Followers     int     `json:"followers"`
	PublicRepos   int     `json:"public_repos"`
	StarsReceived int     `json:"stars_received"`
	ForksReceived int     `json:"forks_received"`
	GitworthScore float64 `json:"gitworth_score"`
}

