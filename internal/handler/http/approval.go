package http

import (
	"encoding/json"
	"net/http"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/approval"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/response"
)

type ApprovalHandler interface {
	ListPending(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.Service
}

func NewApprovalHandler(approvalService approval.Service) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// ListPending implements ApprovalHandler.
func (h *approvalHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := h.approvalService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

type resolveItemRequest struct {
	Kind     string `json:"kind"`
	Ref      string `json:"ref"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Resolve implements ApprovalHandler.
func (h *approvalHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req resolveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if !approval.ValidKind(req.Kind) {
		response.HandleError(w, approval.ErrUnknownKind)
		return
	}
	if req.Decision != string(approval.DecisionApprove) && req.Decision != string(approval.DecisionReject) {
		response.BadRequest(w, "Decision must be approve or reject", nil)
		return
	}

	ref := approval.ItemRef{Kind: approval.Kind(req.Kind), ID: req.Ref}
	if err := h.approvalService.Resolve(r.Context(), actor, ref, approval.Decision(req.Decision), req.Reason); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Item resolved", nil)
}
