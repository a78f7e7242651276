package http

import (
	"net/http"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/payroll"
	"github.com/staffdesk/staffdesk-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// GetSummary implements PayrollHandler. Staff omit employee_id and get
// their own summary; admins may pass any employee.
func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := payroll.SummaryRequest{
		EmployeeID:  r.URL.Query().Get("employee_id"),
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}
	if req.EmployeeID == "" {
		req.EmployeeID = actor.EmployeeID
	}

	result, err := h.payrollService.ComputeSummary(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
