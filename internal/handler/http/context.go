package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
)

// actorFromRequest rebuilds the acting employee from the verified token
// claims. AuthRequired already guaranteed the token is a valid access token.
func actorFromRequest(r *http.Request) (identity.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return identity.Actor{}, identity.ErrUnknownUser
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return identity.Actor{}, identity.ErrUnknownUser
	}
	role, _ := claims["role"].(string)

	return identity.Actor{
		EmployeeID: employeeID,
		Role:       employee.Role(role),
	}, nil
}
