package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitworth/internal/adapter/cache"
	"gitworth/internal/adapter/github"
	"gitworth/internal/adapter/httpapi"
	"gitworth/internal/adapter/metrics"
	"gitworth/internal/config"
	"gitworth/internal/port"
	"gitworth/internal/service"
)

func main() {
	// 1. 定义命令行参数
	addr := flag.String("addr", "", "监听地址，默认使用 PORT 环境变量")
	envFile := flag.String("env-file", ".env", "环境变量文件")
	flag.Parse()

	// 2. 加载配置
	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("❌ 读取 %s 失败: %v", *envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	if *addr == "" {
		*addr = cfg.Addr()
	}

	// 3. 组装依赖
	handler, cleanup := buildServer(cfg)
	defer cleanup()

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}

	// 4. 设置信号处理，优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("🚀 gitworth 启动于 %s (缓存: %s, TTL: %s)", *addr, cfg.CacheBackend, cache.DefaultTTL)
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %v", err)
		}
	case <-sigChan:
		log.Println("👋 收到停止信号，正在退出...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("⚠️ 优雅关闭失败: %v", err)
		}
	}
}

// buildServer 组装所有依赖并返回 HTTP 处理器，cleanup 用于释放后台资源
func buildServer(cfg *config.Config) (http.Handler, func()) {
	fetcher := github.NewFetcher(github.Config{
		ProfileURL: cfg.GitHubAPIURL,
		ReposURL:   cfg.GitHubReposURL,
		Timeout:    cfg.UpstreamTimeout,
	})

	profileCache, cleanup := buildCache(cfg)
	collector := metrics.NewCollector()
	profileService := service.NewProfileService(fetcher, profileCache, collector)

	mux := http.NewServeMux()
	httpapi.NewHandler(profileService).RegisterRoutes(mux)
	mux.Handle(metrics.Path, collector.Handler())

	return collector.Middleware(mux), cleanup
}

// buildCache 根据配置选择缓存后端
func buildCache(cfg *config.Config) (port.Cache, func()) {
	if cfg.CacheBackend == config.CacheBackendMemcached {
		log.Printf("🗄️ 使用 memcached 缓存: %v", cfg.MemcachedServers())
		return cache.NewMemcached(cache.DefaultTTL, cfg.MemcachedServers()...), func() {}
	}

	mem := cache.NewMemory(cache.DefaultTTL)
	mem.StartJanitor()
	return mem, func() { mem.Close() }
}
