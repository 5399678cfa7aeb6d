package port

import "context"

// Checkout 是一次成功检出的结果。
type Checkout struct {
	Branch string
	Commit string
	Author string
}

// SourceFetcher 负责把源码检出到本地工作目录。
type SourceFetcher interface {
	// Fetch 按候选分支顺序尝试检出，首个成功者生效。
	// 目标目录被整体替换，保证构建输入干净可复现。
	Fetch(ctx context.Context, sourceURL, dir string) (*Checkout, error)
	// Head 返回远端首个存在的候选分支的 HEAD commit，用于轮询触发判断。
	Head(ctx context.Context, sourceURL string) (string, error)
}
