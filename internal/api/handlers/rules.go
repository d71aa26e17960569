package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/geosolve/internal/rules"
)

type RulesHandler struct{}

func NewRulesHandler() *RulesHandler {
	return &RulesHandler{}
}

type ruleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /v1/rules: the catalog in application order.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog := rules.Catalog()
	out := make([]ruleResponse, len(catalog))
	for i, rule := range catalog {
		out[i] = ruleResponse{Name: rule.Name(), Description: rule.Description()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out, "count": len(out)})
}
