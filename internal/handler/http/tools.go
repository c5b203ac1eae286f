package http

import (
	"encoding/json"
	"io"
	"net/http"

	"newsletter-press/internal/handler/http/respond"
	"newsletter-press/internal/tool"
)

// maxArgsBytes caps the tool argument record size.
const maxArgsBytes = 4 << 20

// ToolsHandler serves the tool listing and dispatch endpoints.
type ToolsHandler struct {
	registry *tool.Registry
}

// NewToolsHandler creates the handler over a registry.
func NewToolsHandler(registry *tool.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// listResponse is the body of GET /tools.
type listResponse struct {
	Tools []tool.Descriptor `json:"tools"`
	Count int               `json:"count"`
}

// List handles GET /tools.
func (h *ToolsHandler) List(w http.ResponseWriter, _ *http.Request) {
	descriptors := h.registry.List()
	respond.JSON(w, http.StatusOK, listResponse{Tools: descriptors, Count: len(descriptors)})
}

// Invoke handles POST /tools/{name}. The request body is the tool's JSON
// argument record; an empty body runs the tool with its defaults.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxArgsBytes+1))
	if err != nil {
		respond.ToolError(w, tool.BadRequest("read request body: %v", err))
		return
	}
	if len(body) > maxArgsBytes {
		respond.ToolError(w, tool.BadRequest("argument record exceeds %d bytes", maxArgsBytes))
		return
	}
	// An empty body reaches handlers as a valid JSON null so every tool
	// runs with its defaults, not just the ones that decode leniently.
	if len(body) == 0 {
		body = []byte("null")
	}

	result, err := h.registry.Dispatch(r.Context(), name, json.RawMessage(body))
	if err != nil {
		respond.ToolError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
