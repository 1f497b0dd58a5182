package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"gitworth/internal/common"
	"gitworth/internal/port"
)

// Handler 暴露 GET /profile/{username}
type Handler struct {
	profiles port.ProfileProvider
}

// NewHandler 创建 HTTP 处理器
func NewHandler(profiles port.ProfileProvider) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /profile/{username}", h.handleProfile)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	payload, err := h.profiles.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse 错误响应体
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, common.HTTPStatus(err), errorResponse{Error: common.PublicMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ 写入响应失败: %v", err)
	}
}
