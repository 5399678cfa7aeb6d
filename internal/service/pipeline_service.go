package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/detect"
	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	"github.com/google/uuid"
)

// PipelineConfig 是编排层的全部可调参数，零值用 withDefaults 填齐。
type PipelineConfig struct {
	Registry        string
	DefaultStaticIP string
	WorkRoot        string

	// apply 最多 2 次尝试，整体 15 分钟封顶
	ApplyAttempts int
	ApplyCeiling  time.Duration
	// 健康观察最多 2 次尝试（单次上限在 Deployer 内部），整体 10 分钟封顶
	ObserveAttempts int
	ObserveCeiling  time.Duration
	// Ingress 外部地址轮询：10 秒一次，至多 30 次
	EndpointAttempts int
	EndpointInterval time.Duration
}

func (c *PipelineConfig) withDefaults() {
	if c.WorkRoot == "" {
		c.WorkRoot = filepath.Join(os.TempDir(), "pipeline-engine")
	}
	if c.ApplyAttempts == 0 {
		c.ApplyAttempts = 2
	}
	if c.ApplyCeiling == 0 {
		c.ApplyCeiling = 15 * time.Minute
	}
	if c.ObserveAttempts == 0 {
		c.ObserveAttempts = 2
	}
	if c.ObserveCeiling == 0 {
		c.ObserveCeiling = 10 * time.Minute
	}
	if c.EndpointAttempts == 0 {
		c.EndpointAttempts = 30
	}
	if c.EndpointInterval == 0 {
		c.EndpointInterval = 10 * time.Second
	}
}

// PipelineService 按固定顺序驱动七个阶段，任一致命错误立即中止
// 剩余阶段并进入失败处理。阶段图不可配置。
type PipelineService struct {
	runRepo  port.RunRepository
	fetcher  port.SourceFetcher
	builder  port.ImageBuilder
	deployer port.Deployer
	reporter port.StageReporter
	locks    *runLocks
	cfg      PipelineConfig
}

func NewPipelineService(
	runRepo port.RunRepository,
	fetcher port.SourceFetcher,
	builder port.ImageBuilder,
	deployer port.Deployer,
	reporter port.StageReporter,
	cfg PipelineConfig,
) *PipelineService {
	cfg.withDefaults()
	return &PipelineService{
		runRepo:  runRepo,
		fetcher:  fetcher,
		builder:  builder,
		deployer: deployer,
		reporter: reporter,
		locks:    newRunLocks(),
		cfg:      cfg,
	}
}

// Trigger 校验参数、抢占项目锁、落库取得构建号，然后异步执行流水线。
// 参数无法解析时在任何外部调用之前就返回 ErrParameter；
// 同项目已有执行中的流水线时返回 ErrRunActive。
func (s *PipelineService) Trigger(ctx context.Context, params domain.TriggerParams) (*domain.PipelineRun, error) {
	// 先用占位构建号解析一遍，拿到项目名并完成全部校验
	probe, err := domain.ResolveContext(params, 0, s.cfg.DefaultStaticIP)
	if err != nil {
		return nil, err
	}

	if !s.locks.TryAcquire(probe.ProjectName) {
		return nil, fmt.Errorf("%w: project %s", domain.ErrRunActive, probe.ProjectName)
	}

	now := time.Now()
	run := &domain.PipelineRun{
		ID:           uuid.New().String(),
		ProjectName:  probe.ProjectName,
		SourceURL:    params.SourceURL,
		DeploymentID: params.DeploymentID,
		Status:       domain.RunStatusRunning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		s.locks.Release(probe.ProjectName)
		return nil, err
	}

	dctx, err := domain.ResolveContext(params, run.Number, s.cfg.DefaultStaticIP)
	if err != nil {
		s.locks.Release(probe.ProjectName)
		return nil, err
	}

	go s.execute(context.Background(), run, dctx)
	return run, nil
}

func (s *PipelineService) GetRun(ctx context.Context, id string) (*domain.PipelineRun, error) {
	return s.runRepo.FindByID(ctx, id)
}

func (s *PipelineService) ListRuns(ctx context.Context, projectName string) ([]*domain.PipelineRun, error) {
	if projectName == "" {
		return s.runRepo.FindAll(ctx)
	}
	return s.runRepo.FindByProject(ctx, projectName)
}

// execute 跑完整条流水线并处理收尾：本地镜像清理、失败诊断采集、
// 唯一一次终态回调、执行记录落库。
func (s *PipelineService) execute(ctx context.Context, run *domain.PipelineRun, dctx *domain.DeployContext) {
	defer s.locks.Release(dctx.ProjectName)

	workDir := filepath.Join(s.cfg.WorkRoot, dctx.ProjectName)
	refs := []string{dctx.ImageRef(s.cfg.Registry), dctx.LatestRef(s.cfg.Registry)}
	applied := false

	err := s.runStages(ctx, run, dctx, workDir, refs, &applied)

	// 本地产物清理，成败都执行
	if s.builder != nil {
		_ = s.builder.Remove(ctx, refs...)
	}
	if err := os.RemoveAll(workDir); err != nil {
		slog.Warn("failed to remove work dir", "dir", workDir, "error", err)
	}

	run.UpdatedAt = time.Now()
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		if applied && s.deployer != nil {
			run.Diagnostics = s.deployer.Diagnostics(ctx, dctx.Namespace)
		}
		slog.Error("pipeline failed",
			"project", dctx.ProjectName, "run", run.Number, "stage", run.Stage, "error", err)
	} else {
		run.Status = domain.RunStatusSucceeded
		slog.Info("pipeline succeeded",
			"project", dctx.ProjectName, "run", run.Number, "image", run.Image)
	}

	if s.reporter != nil && dctx.DeploymentID != "" {
		s.reporter.DeploymentStatus(ctx, dctx.DeploymentID, run.Status)
	}
	if err := s.runRepo.Update(ctx, run); err != nil {
		slog.Error("failed to persist run", "run", run.Number, "error", err)
	}
}

func (s *PipelineService) runStages(
	ctx context.Context,
	run *domain.PipelineRun,
	dctx *domain.DeployContext,
	workDir string,
	refs []string,
	applied *bool,
) error {
	if err := s.stage(ctx, run, dctx, domain.StageCheckout, func(ctx context.Context) error {
		checkout, err := s.fetcher.Fetch(ctx, dctx.SourceURL, workDir)
		if err != nil {
			return err
		}
		run.Branch = checkout.Branch
		run.Commit = checkout.Commit
		run.Author = checkout.Author
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, run, dctx, domain.StageDetect, func(context.Context) error {
		dctx.ProjectType = detect.ProjectType(workDir)
		dctx.Port = dctx.ProjectType.DefaultPort()
		run.ProjectType = dctx.ProjectType
		run.Port = dctx.Port
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, run, dctx, domain.StageDockerfile, func(context.Context) error {
		generated, err := detect.EnsureDockerfile(workDir, dctx.ProjectType, dctx.Port)
		if err != nil {
			return err
		}
		if generated {
			slog.Info("dockerfile generated", "project", dctx.ProjectName, "type", dctx.ProjectType)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, run, dctx, domain.StageBuild, func(ctx context.Context) error {
		// 生态构建是尽力而为：失败只告警，继续用检出树构建镜像
		if err := s.builder.PreBuild(ctx, workDir, dctx.ProjectType); err != nil {
			slog.Warn("pre-build failed, building from checked out tree", "project", dctx.ProjectName, "error", err)
		}
		return s.builder.Build(ctx, workDir, refs...)
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, run, dctx, domain.StagePush, func(ctx context.Context) error {
		for _, ref := range refs {
			if err := s.builder.Push(ctx, ref); err != nil {
				return err
			}
		}
		run.Image = refs[0]
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, run, dctx, domain.StageDeploy, func(ctx context.Context) error {
		return s.deployStage(ctx, run, dctx, applied)
	}); err != nil {
		return err
	}

	return s.stage(ctx, run, dctx, domain.StageVerify, func(ctx context.Context) error {
		return s.verifyStage(ctx, run, dctx)
	})
}

// stage 统一包装一次阶段执行：先上报 running，再上报 success 或
// failed 之一。running 不会被跳过，哪怕阶段立即失败。
func (s *PipelineService) stage(
	ctx context.Context,
	run *domain.PipelineRun,
	dctx *domain.DeployContext,
	name string,
	fn func(context.Context) error,
) error {
	run.Stage = name
	s.reportStage(ctx, dctx, name, domain.StageStatusRunning)

	if err := fn(ctx); err != nil {
		s.reportStage(ctx, dctx, name, domain.StageStatusFailed)
		return fmt.Errorf("stage %s: %w", name, err)
	}

	s.reportStage(ctx, dctx, name, domain.StageStatusSuccess)
	run.UpdatedAt = time.Now()
	if err := s.runRepo.Update(ctx, run); err != nil {
		slog.Warn("failed to persist stage progress", "run", run.Number, "stage", name, "error", err)
	}
	return nil
}

func (s *PipelineService) reportStage(ctx context.Context, dctx *domain.DeployContext, name string, status domain.StageStatus) {
	if s.reporter == nil || dctx.DeploymentID == "" {
		return
	}
	s.reporter.StageStatus(ctx, dctx.DeploymentID, name, status)
}

// deployStage 实现两级超时：apply 与健康观察各自有尝试次数和墙钟
// 上限，清单下发和副本就绪是两个独立易抖的操作。
func (s *PipelineService) deployStage(ctx context.Context, run *domain.PipelineRun, dctx *domain.DeployContext, applied *bool) error {
	if err := s.deployer.Prepare(ctx, dctx.Namespace); err != nil {
		return fmt.Errorf("%w: prepare namespace: %v", domain.ErrApplyFailed, err)
	}

	spec := dctx.ManifestSpec(s.cfg.Registry)

	applyCtx, cancel := context.WithTimeout(ctx, s.cfg.ApplyCeiling)
	defer cancel()
	var manifest string
	var err error
	ok := false
	for attempt := 1; attempt <= s.cfg.ApplyAttempts; attempt++ {
		manifest, err = s.deployer.Apply(applyCtx, spec)
		if err == nil {
			ok = true
			break
		}
		slog.Warn("manifest apply failed", "project", dctx.ProjectName, "attempt", attempt, "error", err)
		if applyCtx.Err() != nil {
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrApplyFailed, err)
	}
	*applied = true
	run.Manifest = manifest

	observeCtx, cancel := context.WithTimeout(ctx, s.cfg.ObserveCeiling)
	defer cancel()
	for attempt := 1; attempt <= s.cfg.ObserveAttempts; attempt++ {
		err = s.deployer.WaitHealthy(observeCtx, dctx.Namespace, dctx.ProjectName)
		if err == nil {
			return nil
		}
		slog.Warn("rollout observation failed", "project", dctx.ProjectName, "attempt", attempt, "error", err)
		if observeCtx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTimedOut, err)
}

// verifyStage 轮询 Ingress 外部地址并上报。拿不到地址不算失败 ——
// 部署已经健康，外部 URL 只是尽力而为的元数据。
func (s *PipelineService) verifyStage(ctx context.Context, run *domain.PipelineRun, dctx *domain.DeployContext) error {
	for attempt := 1; attempt <= s.cfg.EndpointAttempts; attempt++ {
		host, err := s.deployer.ExternalHost(ctx, dctx.Namespace, dctx.ProjectName)
		if err != nil {
			slog.Warn("endpoint query failed", "project", dctx.ProjectName, "error", err)
		} else if host != "" {
			externalURL := "http://" + host
			run.ExternalURL = externalURL
			if s.reporter != nil {
				s.reporter.ProjectURL(ctx, dctx.ProjectName, externalURL)
				if dctx.DeploymentID != "" {
					s.reporter.DeploymentURL(ctx, dctx.DeploymentID, externalURL)
				}
			}
			return nil
		}

		if attempt < s.cfg.EndpointAttempts {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.cfg.EndpointInterval):
			}
		}
	}
	slog.Warn("no external host assigned, giving up", "project", dctx.ProjectName)
	return nil
}
