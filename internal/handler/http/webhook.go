package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/response"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/platform"
)

// SignatureHeader carries the hex HMAC-SHA256 digest of the raw request
// body, keyed with the shared webhook secret.
const SignatureHeader = "X-Platform-Signature"

type WebhookHandler interface {
	HandleEvent(w http.ResponseWriter, r *http.Request)
}

type webhookHandlerImpl struct {
	verifier      *platform.WebhookVerifier
	resolver      identity.Resolver
	attendanceSvc attendance.Service
	leaveSvc      leave.Service
	advanceSvc    advance.Service
}

func NewWebhookHandler(
	verifier *platform.WebhookVerifier,
	resolver identity.Resolver,
	attendanceSvc attendance.Service,
	leaveSvc leave.Service,
	advanceSvc advance.Service,
) WebhookHandler {
	return &webhookHandlerImpl{
		verifier:      verifier,
		resolver:      resolver,
		attendanceSvc: attendanceSvc,
		leaveSvc:      leaveSvc,
		advanceSvc:    advanceSvc,
	}
}

type webhookEvent struct {
	Event  string          `json:"event"`
	UserID string          `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// HandleEvent is the bot-platform ingress. The body is authenticated
// before any of it is parsed; an invalid or missing signature is
// indistinguishable from the caller's side.
func (h *webhookHandlerImpl) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "Failed to read request body", nil)
		return
	}

	if !h.verifier.VerifySignature(body, r.Header.Get(SignatureHeader)) {
		response.Unauthorized(w, "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.BadRequest(w, "Invalid event format", nil)
		return
	}
	if event.UserID == "" {
		response.BadRequest(w, "Field 'user_id' is required", nil)
		return
	}

	actor, err := h.resolver.Resolve(r.Context(), event.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch event.Event {
	case "check_in":
		h.handleCheckIn(w, r, actor, event.Data)
	case "check_out":
		h.handleCheckOut(w, r, actor, event.Data)
	case "leave_submit":
		h.handleLeaveSubmit(w, r, actor, event.Data)
	case "leave_cancel":
		h.handleLeaveCancel(w, r, actor, event.Data)
	case "advance_submit":
		h.handleAdvanceSubmit(w, r, actor, event.Data)
	case "advance_cancel":
		h.handleAdvanceCancel(w, r, actor, event.Data)
	default:
		response.BadRequest(w, "Unknown event type", nil)
	}
}

func (h *webhookHandlerImpl) handleCheckIn(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	var req attendance.CheckInRequest
	if err := json.Unmarshal(data, &req); err != nil {
		response.BadRequest(w, "Invalid event data", nil)
		return
	}

	result, err := h.attendanceSvc.CheckIn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *webhookHandlerImpl) handleCheckOut(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	var req attendance.CheckOutRequest
	if err := json.Unmarshal(data, &req); err != nil {
		response.BadRequest(w, "Invalid event data", nil)
		return
	}

	result, err := h.attendanceSvc.CheckOut(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *webhookHandlerImpl) handleLeaveSubmit(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	var req leave.SubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		response.BadRequest(w, "Invalid event data", nil)
		return
	}

	result, err := h.leaveSvc.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", result)
}

func (h *webhookHandlerImpl) handleLeaveCancel(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	ref, ok := decodeCancelData(w, data)
	if !ok {
		return
	}

	if err := h.leaveSvc.Cancel(r.Context(), actor, ref.ID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", nil)
}

func (h *webhookHandlerImpl) handleAdvanceSubmit(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	var req advance.SubmitRequest
	if err := json.Unmarshal(data, &req); err != nil {
		response.BadRequest(w, "Invalid event data", nil)
		return
	}

	result, err := h.advanceSvc.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Advance request submitted", result)
}

func (h *webhookHandlerImpl) handleAdvanceCancel(w http.ResponseWriter, r *http.Request, actor identity.Actor, data []byte) {
	ref, ok := decodeCancelData(w, data)
	if !ok {
		return
	}

	if err := h.advanceSvc.Cancel(r.Context(), actor, ref.ID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance request cancelled", nil)
}

type cancelData struct {
	ID string `json:"id"`
}

func decodeCancelData(w http.ResponseWriter, data []byte) (cancelData, bool) {
	var ref cancelData
	if err := json.Unmarshal(data, &ref); err != nil {
		response.BadRequest(w, "Invalid event data", nil)
		return cancelData{}, false
	}
	if ref.ID == "" {
		response.BadRequest(w, "Field 'id' is required", nil)
		return cancelData{}, false
	}
	return ref, true
}
