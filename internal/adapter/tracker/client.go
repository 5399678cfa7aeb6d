// Package tracker 把流水线进度上报给外部跟踪系统。
// 所有上报都是尽力而为：任何网络错误或非 2xx 都只记一行告警，
// 绝不向调用方传播 —— 跟踪系统不可用不能影响部署本身。
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/port"
)

var _ port.StageReporter = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) StageStatus(ctx context.Context, deploymentID, stage string, status domain.StageStatus) {
	c.post(ctx, "/api/devops/internal/stages", map[string]string{
		"deployment_id": deploymentID,
		"stage_name":    stage,
		"status":        string(status),
	})
}

func (c *Client) ProjectURL(ctx context.Context, projectName, externalURL string) {
	path := fmt.Sprintf("/api/devops/internal/projects/%s/url", url.PathEscape(projectName))
	c.post(ctx, path, map[string]string{"external_url": externalURL})
}

func (c *Client) DeploymentURL(ctx context.Context, deploymentID, externalURL string) {
	path := fmt.Sprintf("/api/devops/internal/deployments/%s/url", url.PathEscape(deploymentID))
	c.post(ctx, path, map[string]string{"external_url": externalURL})
}

func (c *Client) DeploymentStatus(ctx context.Context, deploymentID string, status domain.RunStatus) {
	path := fmt.Sprintf("/api/devops/internal/deployments/%s/status", url.PathEscape(deploymentID))
	c.post(ctx, path, map[string]string{"status": string(status)})
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) {
	data, err := json.Marshal(body)
	if err != nil {
		slog.Warn("tracker: marshal callback body", "path", path, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		slog.Warn("tracker: build callback request", "path", path, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("tracker: callback failed", "path", path, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("tracker: callback rejected", "path", path, "status", resp.StatusCode)
	}
}
