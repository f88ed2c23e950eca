package handler

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/ctxkeys"
	"github.com/celosave/savings/internal/goalid"
	"github.com/celosave/savings/internal/model"
	"github.com/celosave/savings/internal/service"
)

type createGoalRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	TargetAmount string `json:"targetAmount" validate:"required,max=80"`
	Deadline     int64  `json:"deadline" validate:"required,gt=0"`
}

type amountRequest struct {
	Amount string `json:"amount" validate:"required,max=80"`
}

type goalsResponse struct {
	Mode    model.Mode       `json:"mode"`
	Pending bool             `json:"pending"`
	Goals   []model.GoalView `json:"goals"`
}

type GoalHandler struct {
	savings *service.SavingsService
	exports *service.ExportService
}

func NewGoalHandler(savings *service.SavingsService, exports *service.ExportService) *GoalHandler {
	return &GoalHandler{
		savings: savings,
		exports: exports,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Address(r.Context())
	refresh := r.URL.Query().Get("refresh") == "true"

	views, err := h.savings.Views(r.Context(), owner, refresh)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, goalsResponse{
		Mode:    h.savings.Mode(),
		Pending: h.savings.Pending(owner),
		Goals:   views,
	})
}

func (h *GoalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.savings.Summary(r.Context(), ctxkeys.Address(r.Context()))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decode(w, r, &req) {
		return
	}

	target, err := amount.ToBaseUnits(req.TargetAmount)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	op, err := h.savings.CreateGoal(r.Context(), ctxkeys.Address(r.Context()), req.Name, target, req.Deadline)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	respondWithOperation(w, r, h.savings, op, http.StatusCreated)
}

func (h *GoalHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, amt, ok := h.mutation(w, r)
	if !ok {
		return
	}

	op, err := h.savings.Deposit(r.Context(), ctxkeys.Address(r.Context()), id, amt)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	respondWithOperation(w, r, h.savings, op, http.StatusOK)
}

func (h *GoalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, amt, ok := h.mutation(w, r)
	if !ok {
		return
	}

	op, err := h.savings.Withdraw(r.Context(), ctxkeys.Address(r.Context()), id, amt)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	respondWithOperation(w, r, h.savings, op, http.StatusOK)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := goalid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	op, err := h.savings.DeleteGoal(r.Context(), ctxkeys.Address(r.Context()), id)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	respondWithOperation(w, r, h.savings, op, http.StatusOK)
}

// Export returns a presigned download link when uploads are configured, the file itself otherwise.
func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	owner := ctxkeys.Address(r.Context())

	export, err := h.exports.Export(r.Context(), owner)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}

	if export.URL != "" {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"filename": export.Filename,
			"url":      export.URL,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if _, err := w.Write(export.Data); err != nil {
		slog.Error("failed to write export", "error", err, "owner", owner)
	}
}

// mutation reads the goal id from the path and the amount from the body.
func (h *GoalHandler) mutation(w http.ResponseWriter, r *http.Request) (uint64, *big.Int, bool) {
	id, err := goalid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithErr(w, r, err)
		return 0, nil, false
	}

	var req amountRequest
	if !decode(w, r, &req) {
		return 0, nil, false
	}

	amt, err := amount.ToBaseUnits(req.Amount)
	if err != nil {
		respondWithErr(w, r, err)
		return 0, nil, false
	}
	return id, amt, true
}
