package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

func TestEnsureDockerfile_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	original := "FROM scratch\n"
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	generated, err := EnsureDockerfile(dir, domain.ProjectTypeNode, 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated {
		t.Error("generated = true, want false for existing Dockerfile")
	}

	data, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("existing Dockerfile was modified: %q", data)
	}
}

func TestEnsureDockerfile_GeneratesWithDefaultPort(t *testing.T) {
	tests := []struct {
		projectType domain.ProjectType
		wantExpose  string
		wantBase    string
	}{
		{domain.ProjectTypeNode, "EXPOSE 3000", "FROM node:"},
		{domain.ProjectTypeJVM, "EXPOSE 8080", "FROM maven:"},
		{domain.ProjectTypePython, "EXPOSE 8000", "FROM python:"},
		{domain.ProjectTypeStatic, "EXPOSE 80", "FROM nginx:"},
	}
	for _, tt := range tests {
		t.Run(string(tt.projectType), func(t *testing.T) {
			dir := t.TempDir()
			generated, err := EnsureDockerfile(dir, tt.projectType, tt.projectType.DefaultPort())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !generated {
				t.Fatal("generated = false, want true")
			}

			data, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
			if err != nil {
				t.Fatal(err)
			}
			content := string(data)
			if !strings.Contains(content, tt.wantExpose) {
				t.Errorf("dockerfile missing %q:\n%s", tt.wantExpose, content)
			}
			if !strings.Contains(content, tt.wantBase) {
				t.Errorf("dockerfile missing %q:\n%s", tt.wantBase, content)
			}
		})
	}
}
