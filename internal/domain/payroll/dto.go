package payroll

import (
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/validator"
)

type SummaryRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"` // YYYY-MM-DD
	PeriodEnd   string `json:"period_end"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be YYYY-MM-DD",
		})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be YYYY-MM-DD",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	EmployeeID         string         `json:"employee_id"`
	PeriodStart        string         `json:"period_start"`
	PeriodEnd          string         `json:"period_end"`
	WorkedDays         int            `json:"worked_days"`
	LeaveDaysByType    map[string]int `json:"leave_days_by_type"`
	OutstandingAdvance string         `json:"outstanding_advance"`
	NetAdjustments     string         `json:"net_adjustments"`
}
