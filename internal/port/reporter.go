package port

import (
	"context"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

// StageReporter 把阶段状态上报给外部跟踪系统。
// 所有调用都是尽力而为：实现内部吞掉失败，绝不影响流水线走向。
type StageReporter interface {
	StageStatus(ctx context.Context, deploymentID, stage string, status domain.StageStatus)
	ProjectURL(ctx context.Context, projectName, externalURL string)
	DeploymentURL(ctx context.Context, deploymentID, externalURL string)
	// DeploymentStatus 在流水线结束时恰好调用一次。
	DeploymentStatus(ctx context.Context, deploymentID string, status domain.RunStatus)
}
