package httpapi

import (
	"encoding/json"
	"net/http"

	"scrapster-engine/internal/secrets"
)

type SecretsHandler struct{}

type setSearchKeyReq struct {
	EngineID string `json:"engine_id"`
	APIKey   string `json:"api_key"`
}

func (h SecretsHandler) SetSearchKey(w http.ResponseWriter, r *http.Request) {
	var req setSearchKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := secrets.SetSearchKey(req.EngineID, req.APIKey); err != nil {
		http.Error(w, "failed to store api key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
