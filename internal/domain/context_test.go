package domain

import (
	"errors"
	"testing"
)

func TestResolveContext_DerivesProjectName(t *testing.T) {
	ctx, err := ResolveContext(TriggerParams{
		SourceURL: "https://git.example/acme/app",
	}, 42, "203.0.113.10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.ProjectName != "app" {
		t.Errorf("ProjectName = %q, want %q", ctx.ProjectName, "app")
	}
	if ctx.Namespace != "app-dev" {
		t.Errorf("Namespace = %q, want %q", ctx.Namespace, "app-dev")
	}
	if ctx.ImageTag != "42" {
		t.Errorf("ImageTag = %q, want %q", ctx.ImageTag, "42")
	}
	if got := ctx.ImageRef("harbor.local/paas"); got != "harbor.local/paas/app:42" {
		t.Errorf("ImageRef = %q", got)
	}
	if got := ctx.LatestRef("harbor.local/paas"); got != "harbor.local/paas/app:latest" {
		t.Errorf("LatestRef = %q", got)
	}
	if got := ctx.IngressHost(); got != "app.203.0.113.10.nip.io" {
		t.Errorf("IngressHost = %q", got)
	}
}

func TestResolveContext_MissingSourceURL(t *testing.T) {
	_, err := ResolveContext(TriggerParams{ProjectName: "app"}, 1, "")
	if !errors.Is(err, ErrParameter) {
		t.Fatalf("error = %v, want ErrParameter", err)
	}
}

func TestResolveContext_UnderivableProjectName(t *testing.T) {
	_, err := ResolveContext(TriggerParams{SourceURL: "https://"}, 1, "")
	if !errors.Is(err, ErrParameter) {
		t.Fatalf("error = %v, want ErrParameter", err)
	}
}

func TestResolveContext_ExplicitNameWins(t *testing.T) {
	ctx, err := ResolveContext(TriggerParams{
		SourceURL:   "https://git.example/acme/app.git",
		ProjectName: "frontend",
	}, 7, "203.0.113.10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.ProjectName != "frontend" {
		t.Errorf("ProjectName = %q, want %q", ctx.ProjectName, "frontend")
	}
}

func TestResolveContext_StaticIPOverride(t *testing.T) {
	ctx, err := ResolveContext(TriggerParams{
		SourceURL: "https://git.example/acme/app",
		StaticIP:  "198.51.100.7",
	}, 1, "203.0.113.10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.StaticIP != "198.51.100.7" {
		t.Errorf("StaticIP = %q, want override", ctx.StaticIP)
	}
}

func TestProjectNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://git.example/acme/app", "app"},
		{"https://git.example/acme/app.git", "app"},
		{"https://git.example/acme/App", "app"},
		{"https://git.example/acme/app/", "app"},
		{"https://", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ProjectNameFromURL(tt.url); got != tt.want {
			t.Errorf("ProjectNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
