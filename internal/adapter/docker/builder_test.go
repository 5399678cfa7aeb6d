package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

type fakeRunner struct {
	commands []string
	failOn   string // 命令前缀，命中则返回错误
}

func (f *fakeRunner) run(_ context.Context, _, name string, args ...string) ([]byte, error) {
	cmd := name + " " + strings.Join(args, " ")
	f.commands = append(f.commands, cmd)
	if f.failOn != "" && strings.HasPrefix(cmd, f.failOn) {
		return []byte("boom"), fmt.Errorf("exit status 1")
	}
	return nil, nil
}

func TestBuild_TagsBothRefs(t *testing.T) {
	fake := &fakeRunner{}
	b := &Builder{run: fake.run}

	err := b.Build(context.Background(), "/work/app", "reg.local/app:42", "reg.local/app:latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.commands) != 1 {
		t.Fatalf("commands = %v, want single docker build", fake.commands)
	}
	cmd := fake.commands[0]
	if !strings.Contains(cmd, "-t reg.local/app:42") || !strings.Contains(cmd, "-t reg.local/app:latest") {
		t.Errorf("build command missing tags: %q", cmd)
	}
}

func TestBuild_FailureIsBuildError(t *testing.T) {
	fake := &fakeRunner{failOn: "docker build"}
	b := &Builder{run: fake.run}

	err := b.Build(context.Background(), "/work/app", "reg.local/app:42")
	if !errors.Is(err, domain.ErrBuild) {
		t.Fatalf("error = %v, want ErrBuild", err)
	}
}

func TestPush_FailureIsPublishError(t *testing.T) {
	fake := &fakeRunner{failOn: "docker push"}
	b := &Builder{run: fake.run}

	err := b.Push(context.Background(), "reg.local/app:42")
	if !errors.Is(err, domain.ErrPublish) {
		t.Fatalf("error = %v, want ErrPublish", err)
	}
}

func TestRemove_SwallowsFailures(t *testing.T) {
	fake := &fakeRunner{failOn: "docker rmi"}
	b := &Builder{run: fake.run}

	if err := b.Remove(context.Background(), "reg.local/app:42", "reg.local/app:latest"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(fake.commands) != 2 {
		t.Errorf("commands = %v, want rmi per ref", fake.commands)
	}
}

func TestPreBuild_NodeRunsInstallAndBuild(t *testing.T) {
	fake := &fakeRunner{}
	b := &Builder{run: fake.run}

	if err := b.PreBuild(context.Background(), "/work/app", domain.ProjectTypeNode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.commands) != 2 {
		t.Fatalf("commands = %v", fake.commands)
	}
	if !strings.HasPrefix(fake.commands[0], "npm install") {
		t.Errorf("first command = %q", fake.commands[0])
	}
}

func TestPreBuild_StaticIsNoop(t *testing.T) {
	fake := &fakeRunner{}
	b := &Builder{run: fake.run}

	if err := b.PreBuild(context.Background(), "/work/app", domain.ProjectTypeStatic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.commands) != 0 {
		t.Errorf("commands = %v, want none", fake.commands)
	}
}
