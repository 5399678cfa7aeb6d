package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
	"github.com/robfig/cron/v3"
)

// Poller 按固定间隔扫描注册表，远端 HEAD 相对上次触发有变化时
// 触发一次流水线。项目锁被占（上一轮还在跑）时本轮直接跳过，
// 绝不并行执行同一项目。
type Poller struct {
	projects port.ProjectRepository
	fetcher  port.SourceFetcher
	pipeline *PipelineService
	interval time.Duration
	cron     *cron.Cron
}

func NewPoller(projects port.ProjectRepository, fetcher port.SourceFetcher, pipeline *PipelineService, interval time.Duration) *Poller {
	return &Poller{
		projects: projects,
		fetcher:  fetcher,
		pipeline: pipeline,
		interval: interval,
		cron:     cron.New(),
	}
}

func (p *Poller) Start() error {
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
		return fmt.Errorf("schedule poller: %w", err)
	}
	p.cron.Start()
	slog.Info("poller started", "interval", p.interval.String())
	return nil
}

func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

func (p *Poller) tick() {
	ctx := context.Background()
	projects, err := p.projects.FindAll(ctx)
	if err != nil {
		slog.Warn("poller: list projects", "error", err)
		return
	}
	for _, project := range projects {
		p.poll(ctx, project)
	}
}

func (p *Poller) poll(ctx context.Context, project *domain.Project) {
	head, err := p.fetcher.Head(ctx, project.SourceURL)
	if err != nil {
		slog.Warn("poller: resolve remote head", "project", project.Name, "error", err)
		return
	}
	if head == project.LastCommit {
		return
	}

	if _, err := p.pipeline.Trigger(ctx, project.Params()); err != nil {
		if errors.Is(err, domain.ErrRunActive) {
			slog.Info("poller: run active, skipping tick", "project", project.Name)
		} else {
			slog.Warn("poller: trigger failed", "project", project.Name, "error", err)
		}
		return
	}

	project.LastCommit = head
	project.UpdatedAt = time.Now()
	if err := p.projects.Update(ctx, project); err != nil {
		slog.Warn("poller: persist last commit", "project", project.Name, "error", err)
	}
}
