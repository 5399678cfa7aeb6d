// Package docker 通过 docker CLI 完成镜像构建、推送与本地清理。
package docker

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
)

var _ port.ImageBuilder = (*Builder)(nil)

type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execCmd(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd.CombinedOutput()
}

type Builder struct {
	run runFunc
}

func NewBuilder() *Builder {
	return &Builder{run: execCmd}
}

// preBuildCommands 是各项目类型的生态构建命令。static 没有构建步骤，
// --if-present / 缺少构建脚本的情况由命令自身兜底。
var preBuildCommands = map[domain.ProjectType][][]string{
	domain.ProjectTypeNode: {
		{"npm", "install"},
		{"npm", "run", "build", "--if-present"},
	},
	domain.ProjectTypeJVM: {
		{"mvn", "-q", "package", "-DskipTests"},
	},
	domain.ProjectTypePython: nil,
	domain.ProjectTypeStatic: nil,
}

func (b *Builder) PreBuild(ctx context.Context, dir string, projectType domain.ProjectType) error {
	for _, cmd := range preBuildCommands[projectType] {
		out, err := b.run(ctx, dir, cmd[0], cmd[1:]...)
		if err != nil {
			return fmt.Errorf("%s: %v: %s", strings.Join(cmd, " "), err, tail(out))
		}
	}
	return nil
}

// Build 一次 docker build 同时打上所有 tag，保证各 tag 指向同一镜像。
func (b *Builder) Build(ctx context.Context, dir string, refs ...string) error {
	args := []string{"build"}
	for _, ref := range refs {
		args = append(args, "-t", ref)
	}
	args = append(args, ".")

	if out, err := b.run(ctx, dir, "docker", args...); err != nil {
		return fmt.Errorf("%w: %v: %s", domain.ErrBuild, err, tail(out))
	}
	return nil
}

func (b *Builder) Push(ctx context.Context, ref string) error {
	if out, err := b.run(ctx, "", "docker", "push", ref); err != nil {
		return fmt.Errorf("%w: push %s: %v: %s", domain.ErrPublish, ref, err, tail(out))
	}
	return nil
}

// Remove 删除本地镜像 tag。清理失败只记录，不向上传播。
func (b *Builder) Remove(ctx context.Context, refs ...string) error {
	for _, ref := range refs {
		if out, err := b.run(ctx, "", "docker", "rmi", "-f", ref); err != nil {
			slog.Warn("failed to remove local image", "ref", ref, "error", err, "output", tail(out))
		}
	}
	return nil
}

func tail(out []byte) string {
	const max = 400
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
