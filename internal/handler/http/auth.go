package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/response"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/jwt"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/platform"
)

type AuthHandler interface {
	LoginWithMiniApp(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	resolver   identity.Resolver
	jwtService jwt.Service
	botToken   string
	now        func() time.Time
}

func NewAuthHandler(resolver identity.Resolver, jwtService jwt.Service, botToken string) AuthHandler {
	return &authHandlerImpl{
		resolver:   resolver,
		jwtService: jwtService,
		botToken:   botToken,
		now:        time.Now,
	}
}

type miniAppLoginRequest struct {
	InitData string `json:"init_data"`
}

type miniAppLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
}

// LoginWithMiniApp exchanges signed mini-app init data for a session
// token. The signature check comes first; only then is the external user
// id trusted enough to resolve.
func (h *authHandlerImpl) LoginWithMiniApp(w http.ResponseWriter, r *http.Request) {
	var req miniAppLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	externalUserID, err := platform.VerifyInitData(req.InitData, h.botToken, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := h.resolver.Resolve(r.Context(), externalUserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(actor.EmployeeID, actor.Role)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, miniAppLoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		EmployeeID:  actor.EmployeeID,
		Role:        string(actor.Role),
	})
}
