package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gitworth/internal/adapter/analyzer"
	"gitworth/internal/adapter/github"
	"gitworth/internal/common"
	"gitworth/internal/config"
	"gitworth/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: debug <username>")
		os.Exit(2)
	}
	username := os.Args[1]

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("⚠️ 读取 .env 失败: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
	defer cancel()

	// 初始化组件，调试模式不走缓存
	fetcher := github.NewFetcher(github.Config{
		ProfileURL: cfg.GitHubAPIURL,
		ReposURL:   cfg.GitHubReposURL,
		Timeout:    cfg.UpstreamTimeout,
	})
	profileService := service.NewProfileService(fetcher, nil, nil)

	fmt.Printf("🔍 调试模式：计算 %s 的 gitworth\n", username)

	summary, err := profileService.Compute(ctx, username)
	if err != nil {
		fmt.Printf("❌ HTTP %d: %s\n", common.HTTPStatus(err), common.PublicMessage(err))
		fmt.Printf("    详细错误: %v\n", err)
		os.Exit(1)
	}

	raw := int64(summary.Followers)*analyzer.FollowerWeight +
		int64(summary.PublicRepos)*analyzer.PublicRepoWeight +
		int64(summary.StarsReceived)*analyzer.StarWeight +
		int64(summary.ForksReceived)*analyzer.ForkWeight
	fmt.Printf("✅ 原始分: %d / %d  ->  gitworth: %.2f\n", raw, analyzer.MaxRawScore, summary.GitworthScore)

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
