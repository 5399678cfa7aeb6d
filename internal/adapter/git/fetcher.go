// Package git 通过 git CLI 检出源码。检出失败的分支按候选列表
// 顺序降级，整个目录在每次尝试前整体删除，保证干净的构建输入。
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
)

var _ port.SourceFetcher = (*Fetcher)(nil)

// runFunc 执行一条 git 命令并返回合并输出，测试时替换。
type runFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd.CombinedOutput()
}

type Fetcher struct {
	branches []string
	run      runFunc
}

func NewFetcher() *Fetcher {
	return &Fetcher{branches: domain.BranchCandidates, run: execGit}
}

// Fetch 按序尝试浅克隆各候选分支，首个成功者生效，之后不再尝试
// 其余候选。全部失败时返回 ErrCheckout。
func (f *Fetcher) Fetch(ctx context.Context, sourceURL, dir string) (*port.Checkout, error) {
	var lastErr error
	for _, branch := range f.branches {
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("clean work dir: %w", err)
		}

		out, err := f.run(ctx, "", "clone", "--depth", "1", "--branch", branch, sourceURL, dir)
		if err != nil {
			lastErr = fmt.Errorf("branch %s: %v: %s", branch, err, tail(out))
			slog.Warn("checkout attempt failed", "url", sourceURL, "branch", branch, "error", err)
			continue
		}

		checkout := &port.Checkout{Branch: branch}
		if out, err := f.run(ctx, dir, "rev-parse", "HEAD"); err == nil {
			checkout.Commit = strings.TrimSpace(string(out))
		}
		if out, err := f.run(ctx, dir, "log", "-1", "--format=%an"); err == nil {
			checkout.Author = strings.TrimSpace(string(out))
		}
		return checkout, nil
	}
	return nil, fmt.Errorf("%w: tried branches %v: %v", domain.ErrCheckout, f.branches, lastErr)
}

// Head 用 ls-remote 解析远端首个存在的候选分支的 commit。
func (f *Fetcher) Head(ctx context.Context, sourceURL string) (string, error) {
	for _, branch := range f.branches {
		out, err := f.run(ctx, "", "ls-remote", sourceURL, "refs/heads/"+branch)
		if err != nil {
			return "", fmt.Errorf("ls-remote %s: %v: %s", sourceURL, err, tail(out))
		}
		fields := strings.Fields(string(out))
		if len(fields) > 0 {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("%w: no candidate branch found on %s", domain.ErrCheckout, sourceURL)
}

// tail 截取命令输出末尾，避免错误信息里塞进整个 clone 日志。
func tail(out []byte) string {
	const max = 400
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
