package advance

import (
	"github.com/shopspring/decimal"

	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Amount string `json:"amount"` // decimal string, e.g. "150.00"
	Reason string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be a decimal number",
		})
	} else if !amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedAmount returns the decimal amount. Call Validate first.
func (r *SubmitRequest) ParsedAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(r.Amount)
	return amount
}

type RejectRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Amount       string  `json:"amount"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	Outstanding  string  `json:"outstanding_at_submit"`
	ResolverID   *string `json:"resolver_id,omitempty"`
	ResolvedAt   *string `json:"resolved_at,omitempty"`
	Settled      bool    `json:"settled"`
	SubmittedAt  string  `json:"submitted_at"`
}

type BalanceResponse struct {
	Outstanding string `json:"outstanding"`
	Cap         string `json:"cap"`
	Available   string `json:"available"`
}
