package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/adapter/docker"
	"github.com/chiwei-platform/pipeline-engine/internal/adapter/git"
	httpadapter "github.com/chiwei-platform/pipeline-engine/internal/adapter/http"
	"github.com/chiwei-platform/pipeline-engine/internal/adapter/kubernetes"
	"github.com/chiwei-platform/pipeline-engine/internal/adapter/repository"
	"github.com/chiwei-platform/pipeline-engine/internal/adapter/tracker"
	"github.com/chiwei-platform/pipeline-engine/internal/config"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	"github.com/chiwei-platform/pipeline-engine/internal/service"
)

func main() {
	cfg := config.Load()

	// 数据库
	db, err := repository.OpenDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open db", "error", err)
		os.Exit(1)
	}

	// 存储层
	runRepo := repository.NewRunRepo(db)
	projectRepo := repository.NewProjectRepo(db)

	// K8s 客户端。部署是核心能力，没有集群无法运行。
	cs, _, err := kubernetes.NewClientset(cfg.KubeconfigPath)
	if err != nil {
		slog.Error("k8s client unavailable", "error", err)
		os.Exit(1)
	}

	var dockerConfigJSON []byte
	if cfg.RegistryAuthFile != "" {
		dockerConfigJSON, err = os.ReadFile(cfg.RegistryAuthFile)
		if err != nil {
			slog.Error("failed to read registry auth file", "path", cfg.RegistryAuthFile, "error", err)
			os.Exit(1)
		}
	}
	deployer := kubernetes.NewClusterDeployer(cs, kubernetes.DeployerConfig{
		PullSecretName:   cfg.RegistrySecret,
		DockerConfigJSON: dockerConfigJSON,
	})

	// 跟踪系统回调（可选，未配置时不上报）
	var reporter port.StageReporter
	if cfg.TrackerURL != "" {
		reporter = tracker.NewClient(cfg.TrackerURL)
	} else {
		slog.Warn("tracker url not configured, progress reporting disabled")
	}

	// 服务层
	fetcher := git.NewFetcher()
	builder := docker.NewBuilder()
	pipelineSvc := service.NewPipelineService(runRepo, fetcher, builder, deployer, reporter, service.PipelineConfig{
		Registry:        cfg.RegistryBase,
		DefaultStaticIP: cfg.StaticIP,
		WorkRoot:        cfg.WorkRoot,
	})
	projectSvc := service.NewProjectService(projectRepo)

	// 定时轮询
	poller := service.NewPoller(projectRepo, fetcher, pipelineSvc, cfg.PollInterval)
	if err := poller.Start(); err != nil {
		slog.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// HTTP 路由
	handler := httpadapter.NewRouter(
		httpadapter.NewPipelineHandler(pipelineSvc),
		httpadapter.NewProjectHandler(projectSvc),
		cfg.APIToken,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	poller.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
