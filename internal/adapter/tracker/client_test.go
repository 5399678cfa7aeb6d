package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

type recorded struct {
	path string
	body map[string]string
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, recorded{path: r.URL.Path, body: body})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestStageStatus(t *testing.T) {
	srv, calls := newRecordingServer(t, http.StatusOK)
	c := NewClient(srv.URL)

	c.StageStatus(context.Background(), "dep-1", domain.StageCheckout, domain.StageStatusRunning)

	if len(*calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(*calls))
	}
	got := (*calls)[0]
	if got.path != "/api/devops/internal/stages" {
		t.Errorf("path = %q", got.path)
	}
	want := map[string]string{"deployment_id": "dep-1", "stage_name": "checkout", "status": "running"}
	for k, v := range want {
		if got.body[k] != v {
			t.Errorf("body[%s] = %q, want %q", k, got.body[k], v)
		}
	}
}

func TestURLAndStatusPaths(t *testing.T) {
	srv, calls := newRecordingServer(t, http.StatusOK)
	c := NewClient(srv.URL)
	ctx := context.Background()

	c.ProjectURL(ctx, "app", "http://app.203.0.113.10.nip.io")
	c.DeploymentURL(ctx, "dep-1", "http://app.203.0.113.10.nip.io")
	c.DeploymentStatus(ctx, "dep-1", domain.RunStatusSucceeded)

	wantPaths := []string{
		"/api/devops/internal/projects/app/url",
		"/api/devops/internal/deployments/dep-1/url",
		"/api/devops/internal/deployments/dep-1/status",
	}
	if len(*calls) != len(wantPaths) {
		t.Fatalf("calls = %d, want %d", len(*calls), len(wantPaths))
	}
	for i, want := range wantPaths {
		if (*calls)[i].path != want {
			t.Errorf("path[%d] = %q, want %q", i, (*calls)[i].path, want)
		}
	}
	if (*calls)[2].body["status"] != "success" {
		t.Errorf("terminal status body = %v", (*calls)[2].body)
	}
}

func TestCallbackFailuresAreSwallowed(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusInternalServerError)
	c := NewClient(srv.URL)

	// 不应 panic、不应返回错误（接口无错误返回值）
	c.StageStatus(context.Background(), "dep-1", domain.StageBuild, domain.StageStatusFailed)

	// 服务完全不可达同样要静默
	down := NewClient("http://127.0.0.1:1")
	down.DeploymentStatus(context.Background(), "dep-1", domain.RunStatusFailed)
}
