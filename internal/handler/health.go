package handler

import (
	"net/http"

	"github.com/celosave/savings/internal/ctxkeys"
	"github.com/celosave/savings/internal/model"
)

type HealthHandler struct {
	mode model.Mode
}

func NewHealthHandler(mode model.Mode) *HealthHandler {
	return &HealthHandler{mode: mode}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"mode":   h.mode,
	}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		resp["app"] = cfg.AppName
		resp["env"] = cfg.AppEnv
		if h.mode == model.ModeLedger {
			resp["chainId"] = cfg.LedgerChainID
			resp["contract"] = cfg.LedgerContractAddress
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}
