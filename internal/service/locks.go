package service

import "sync"

// runLocks 保证同一项目同一时间至多一条流水线在执行。
// 并发触发靠它串行化：拿不到锁的触发直接被拒绝，不排队。
// namespace 和 latest 标签都是后写覆盖的共享资源，这是唯一的保护。
type runLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunLocks() *runLocks {
	return &runLocks{active: make(map[string]struct{})}
}

func (l *runLocks) TryAcquire(project string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.active[project]; ok {
		return false
	}
	l.active[project] = struct{}{}
	return true
}

func (l *runLocks) Release(project string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, project)
}
