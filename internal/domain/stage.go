package domain

// StageStatus 是单个阶段上报给跟踪系统的状态。
// 每个阶段总是先上报 running，再上报 success 或 failed 之一。
type StageStatus string

const (
	StageStatusRunning StageStatus = "running"
	StageStatusSuccess StageStatus = "success"
	StageStatusFailed  StageStatus = "failed"
)

// 流水线阶段名，固定顺序执行，不可配置。
const (
	StageCheckout   = "checkout"
	StageDetect     = "detect"
	StageDockerfile = "dockerfile"
	StageBuild      = "build"
	StagePush       = "push"
	StageDeploy     = "deploy"
	StageVerify     = "verify"
)

// RunStatus 是整条流水线的状态机枚举。
// 状态流转：Running → (Succeeded | Failed)
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "success"
	RunStatusFailed    RunStatus = "failed"
)

// RolloutOutcome 是部署阶段的终态，只有 Healthy 允许流水线继续。
type RolloutOutcome string

const (
	RolloutHealthy     RolloutOutcome = "healthy"
	RolloutTimedOut    RolloutOutcome = "timed-out"
	RolloutApplyFailed RolloutOutcome = "apply-failed"
)
