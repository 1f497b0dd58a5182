package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 缓存后端
const (
	CacheBackendMemory    = "memory"
	CacheBackendMemcached = "memcached"
)

// Config 保存应用配置，全部来自环境变量
type Config struct {
	Port int

	// 上游地址: 资料地址后面直接拼接用户名，仓库地址中的 {} 会被替换为用户名
	GitHubAPIURL   string
	GitHubReposURL string

	UpstreamTimeout time.Duration

	CacheBackend  string
	MemcachedAddr string
}

// LoadDotEnv 读取 .env 文件 (如果存在)，已设置的环境变量不会被覆盖
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	port, err := getIntOrDefault("PORT", 5000)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT 超出范围: %d", port)
	}

	timeoutSeconds, err := getIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS 必须大于 0: %d", timeoutSeconds)
	}

	backend := strings.ToLower(getEnvOrDefault("CACHE_BACKEND", CacheBackendMemory))
	switch backend {
	case CacheBackendMemory, CacheBackendMemcached:
	default:
		return nil, fmt.Errorf("未知的 CACHE_BACKEND: %q", backend)
	}

	return &Config{
		Port:            port,
		GitHubAPIURL:    getEnvOrDefault("GITHUB_API_URL", "https://api.github.com/users/"),
		GitHubReposURL:  getEnvOrDefault("GITHUB_REPOS_URL", "https://api.github.com/users/{}/repos"),
		UpstreamTimeout: time.Duration(timeoutSeconds) * time.Second,
		CacheBackend:    backend,
		MemcachedAddr:   getEnvOrDefault("MEMCACHED_ADDR", "127.0.0.1:11211"),
	}, nil
}

// Addr 返回监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MemcachedServers 返回 memcached 节点列表 (逗号分隔)
func (c *Config) MemcachedServers() []string {
	parts := strings.Split(c.MemcachedAddr, ",")
	servers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			servers = append(servers, p)
		}
	}
	return servers
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s 不是合法的整数: %q", key, value)
	}
	return n, nil
}
