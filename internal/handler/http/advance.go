package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/response"
)

type AdvanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	MyBalance(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.Service
}

func NewAdvanceHandler(advanceService advance.Service) AdvanceHandler {
	return &advanceHandlerImpl{
		advanceService: advanceService,
	}
}

// Submit implements AdvanceHandler.
func (h *advanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.advanceService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Advance request submitted", result)
}

// Cancel implements AdvanceHandler.
func (h *advanceHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.advanceService.Cancel(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance request cancelled", nil)
}

// Approve implements AdvanceHandler.
func (h *advanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.advanceService.Approve(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance request approved", nil)
}

// Reject implements AdvanceHandler.
func (h *advanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.advanceService.Reject(r.Context(), actor, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance request rejected", nil)
}

// MyRequests implements AdvanceHandler.
func (h *advanceHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.MyRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MyBalance implements AdvanceHandler.
func (h *advanceHandlerImpl) MyBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.MyBalance(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Settle implements AdvanceHandler.
func (h *advanceHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	settled, err := h.advanceService.Settle(r.Context(), actor, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advances settled", map[string]int64{"settled": settled})
}

// ListPending implements AdvanceHandler.
func (h *advanceHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
