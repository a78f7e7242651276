package attendance

import (
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveRequest struct {
	ID       string `json:"-"`
	Decision string `json:"decision"` // "approve" or "reject"
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Decision != "approve" && r.Decision != "reject" {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approve or reject",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName *string  `json:"employee_name,omitempty"`
	Date         string   `json:"date"`
	CheckInAt    string   `json:"check_in_at"`
	CheckOutAt   *string  `json:"check_out_at,omitempty"`
	Status       string   `json:"status"`
	Violations   []string `json:"violations,omitempty"`
	ResolvedBy   *string  `json:"resolved_by,omitempty"`
	ResolvedAt   *string  `json:"resolved_at,omitempty"`
}

type HistoryFilter struct {
	From string `json:"from"` // YYYY-MM-DD, optional
	To   string `json:"to"`
}
