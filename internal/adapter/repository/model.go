package repository

import "time"

// RunModel 是 PipelineRun 的数据库持久化模型。
// Number 是自增主键，同时充当顺序构建号和镜像 tag。
type RunModel struct {
	Number       int64  `gorm:"primaryKey;autoIncrement"`
	ID           string `gorm:"uniqueIndex"`
	ProjectName  string `gorm:"index"`
	SourceURL    string
	DeploymentID string
	Branch       string
	Commit       string
	Author       string
	ProjectType  string
	Port         int
	Image        string
	Status       string
	Stage        string
	ExternalURL  string
	Manifest     string `gorm:"type:text"`
	Diagnostics  string `gorm:"type:text"`
	Error        string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RunModel) TableName() string { return "pipeline_runs" }

// ProjectModel 是轮询注册表的持久化模型。
type ProjectModel struct {
	Name          string `gorm:"primaryKey"`
	SourceURL     string
	DeploymentID  string
	ResourceGroup string
	StaticIP      string
	LastCommit    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ProjectModel) TableName() string { return "projects" }
