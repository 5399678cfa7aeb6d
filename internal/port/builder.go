package port

import (
	"context"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

// ImageBuilder 负责镜像的构建、推送与本地清理。
type ImageBuilder interface {
	// PreBuild 执行项目类型对应的生态构建命令（npm/mvn 等）。
	// 尽力而为：调用方只记录告警，不中止流水线。
	PreBuild(ctx context.Context, dir string, projectType domain.ProjectType) error
	// Build 用工作目录的 Dockerfile 构建镜像，同时打上所有给定 tag。
	Build(ctx context.Context, dir string, refs ...string) error
	// Push 推送单个镜像引用。
	Push(ctx context.Context, ref string) error
	// Remove 删除本地镜像 tag，流水线结束后无论成败都会调用。
	Remove(ctx context.Context, refs ...string) error
}
