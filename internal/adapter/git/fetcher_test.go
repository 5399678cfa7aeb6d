package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

// fakeGit 按分支名决定 clone 成败，并记录尝试顺序。
type fakeGit struct {
	existing map[string]bool
	cloned   []string
}

func (f *fakeGit) run(_ context.Context, dir string, args ...string) ([]byte, error) {
	switch args[0] {
	case "clone":
		branch := args[4]
		f.cloned = append(f.cloned, branch)
		if !f.existing[branch] {
			return []byte("fatal: Remote branch not found"), fmt.Errorf("exit status 128")
		}
		return nil, nil
	case "rev-parse":
		return []byte("abc1234def\n"), nil
	case "log":
		return []byte("Alice\n"), nil
	case "ls-remote":
		branch := filepath.Base(args[2])
		if f.existing[branch] {
			return []byte("abc1234def\trefs/heads/" + branch + "\n"), nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected command %v", args)
}

func newTestFetcher(f *fakeGit) *Fetcher {
	return &Fetcher{branches: domain.BranchCandidates, run: f.run}
}

func TestFetch_FirstBranchWins(t *testing.T) {
	fake := &fakeGit{existing: map[string]bool{"main": true, "master": true}}
	fetcher := newTestFetcher(fake)

	checkout, err := fetcher.Fetch(context.Background(), "https://git.example/acme/app", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.Branch != "main" {
		t.Errorf("Branch = %q, want main", checkout.Branch)
	}
	if checkout.Commit != "abc1234def" {
		t.Errorf("Commit = %q", checkout.Commit)
	}
	if checkout.Author != "Alice" {
		t.Errorf("Author = %q", checkout.Author)
	}
	if len(fake.cloned) != 1 {
		t.Errorf("clone attempts = %v, want exactly one", fake.cloned)
	}
}

func TestFetch_FallbackOrder(t *testing.T) {
	// 只有第三候选分支存在：前两次失败后第三次成功。
	fake := &fakeGit{existing: map[string]bool{"develop": true}}
	fetcher := newTestFetcher(fake)

	checkout, err := fetcher.Fetch(context.Background(), "https://git.example/acme/app", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.Branch != "develop" {
		t.Errorf("Branch = %q, want develop", checkout.Branch)
	}
	want := []string{"main", "master", "develop"}
	if len(fake.cloned) != len(want) {
		t.Fatalf("clone attempts = %v, want %v", fake.cloned, want)
	}
	for i := range want {
		if fake.cloned[i] != want[i] {
			t.Errorf("attempt %d = %q, want %q", i, fake.cloned[i], want[i])
		}
	}
}

func TestFetch_AllBranchesFail(t *testing.T) {
	fake := &fakeGit{existing: map[string]bool{}}
	fetcher := newTestFetcher(fake)

	_, err := fetcher.Fetch(context.Background(), "https://git.example/acme/app", t.TempDir())
	if !errors.Is(err, domain.ErrCheckout) {
		t.Fatalf("error = %v, want ErrCheckout", err)
	}
	if len(fake.cloned) != 3 {
		t.Errorf("clone attempts = %d, want 3", len(fake.cloned))
	}
}

func TestHead_SkipsMissingBranches(t *testing.T) {
	fake := &fakeGit{existing: map[string]bool{"master": true}}
	fetcher := newTestFetcher(fake)

	commit, err := fetcher.Head(context.Background(), "https://git.example/acme/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commit != "abc1234def" {
		t.Errorf("commit = %q", commit)
	}
}
