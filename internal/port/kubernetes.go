package port

import (
	"context"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

// Deployer 负责把 ManifestSpec 翻译为集群资源并下发。
// 重试次数与整体超时由编排层控制，这里只提供单次原语。
type Deployer interface {
	// Prepare 确保目标 namespace 和镜像拉取凭证存在，幂等。
	Prepare(ctx context.Context, namespace string) error
	// Apply 以 apply 语义下发四个资源，返回渲染后的清单文档。
	Apply(ctx context.Context, spec domain.ManifestSpec) (manifest string, err error)
	// WaitHealthy 阻塞到工作负载全部副本就绪，内部有单次尝试的时间上限。
	WaitHealthy(ctx context.Context, namespace, name string) error
	// ExternalHost 查询 Ingress 已分配的外部地址，未分配时返回空串。
	ExternalHost(ctx context.Context, namespace, name string) (string, error)
	// Diagnostics 收集工作负载状态、近期事件和 Pod 列表。
	// 尽力而为，namespace 不存在时返回已收集到的部分。
	Diagnostics(ctx context.Context, namespace string) string
}
