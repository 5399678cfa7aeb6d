package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
	"github.com/chiwei-platform/pipeline-engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type PipelineHandler struct {
	svc *service.PipelineService
}

func NewPipelineHandler(svc *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{svc: svc}
}

// Trigger 受理一次部署请求。校验通过即返回 202，流水线异步执行，
// 进度通过跟踪系统回调和 GET /runs/{id} 查询。
func (h *PipelineHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var params domain.TriggerParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrParameter, err))
		return
	}
	run, err := h.svc.Trigger(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, run)
}

func (h *PipelineHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.svc.ListRuns(r.Context(), r.URL.Query().Get("project"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *PipelineHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
