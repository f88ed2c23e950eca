package handler

import (
	"net/http"
	"time"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/backend"
	"github.com/celosave/savings/internal/ctxkeys"
	"github.com/celosave/savings/internal/goalid"
	"github.com/celosave/savings/internal/model"
	"github.com/celosave/savings/internal/service"
)

type operationResponse struct {
	ID        string           `json:"id"`
	Kind      backend.Kind     `json:"kind"`
	Mode      model.Mode       `json:"mode"`
	State     backend.State    `json:"state"`
	Error     string           `json:"error,omitempty"`
	GoalID    string           `json:"goalId,omitempty"`
	Amount    string           `json:"amount,omitempty"`
	TxHashes  []string         `json:"txHashes"`
	CreatedAt time.Time        `json:"createdAt"`
	Goal      *model.GoalView  `json:"goal,omitempty"`
	Goals     []model.GoalView `json:"goals,omitempty"`
}

type OperationHandler struct {
	savings *service.SavingsService
}

func NewOperationHandler(savings *service.SavingsService) *OperationHandler {
	return &OperationHandler{savings: savings}
}

func (h *OperationHandler) Show(w http.ResponseWriter, r *http.Request) {
	op, err := h.savings.Operation(ctxkeys.Address(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, renderOperation(h.savings, op))
}

func renderOperation(savings *service.SavingsService, op *backend.Operation) operationResponse {
	resp := operationResponse{
		ID:        op.ID,
		Kind:      op.Kind,
		Mode:      op.Mode,
		State:     op.State(),
		TxHashes:  op.TxHashes(),
		CreatedAt: op.CreatedAt,
	}
	if err := op.Err(); err != nil {
		resp.Error = err.Error()
	}
	if op.Kind != backend.KindCreate {
		resp.GoalID = goalid.Format(op.GoalID)
	}
	if op.Amount != nil {
		resp.Amount = amount.FromBaseUnits(op.Amount, amount.Decimals)
	}
	if g := op.Goal(); g != nil {
		view := savings.View(g)
		resp.Goal = &view
		resp.GoalID = view.ID
	}
	if goals, ok := op.Goals(); ok {
		resp.Goals = make([]model.GoalView, 0, len(goals))
		for _, g := range goals {
			resp.Goals = append(resp.Goals, savings.View(g))
		}
	}
	return resp
}

// respondWithOperation answers a mutation: 202 while pending, done otherwise,
// and the mapped error status when it already failed.
func respondWithOperation(w http.ResponseWriter, r *http.Request, savings *service.SavingsService, op *backend.Operation, done int) {
	switch op.State() {
	case backend.StateFailed:
		respondWithErr(w, r, op.Err())
	case backend.StateConfirmed:
		respondWithJSON(w, done, renderOperation(savings, op))
	default:
		w.Header().Set("Location", "/api/operations/"+op.ID)
		respondWithJSON(w, http.StatusAccepted, renderOperation(savings, op))
	}
}
