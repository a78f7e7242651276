package employee

import (
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	ExternalUserID string   `json:"external_user_id"`
	ChatID         int64    `json:"chat_id"`
	FullName       string   `json:"full_name"`
	Role           string   `json:"role"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	RadiusMeters   *float64 `json:"radius_meters"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ExternalUserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "external_user_id",
			Message: "external_user_id is required",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if r.Role != string(RoleStaff) && r.Role != string(RoleAdmin) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be staff or admin",
		})
	}

	// Geofence fields travel together: all three or none.
	assigned := 0
	if r.Latitude != nil {
		assigned++
	}
	if r.Longitude != nil {
		assigned++
	}
	if r.RadiusMeters != nil {
		assigned++
	}
	if assigned != 0 && assigned != 3 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence",
			Message: "latitude, longitude and radius_meters must be set together",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID           string   `json:"-"`
	FullName     *string  `json:"full_name"`
	Role         *string  `json:"role"`
	ChatID       *int64   `json:"chat_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters"`
	ClearFence   bool     `json:"clear_geofence"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Role != nil && *r.Role != string(RoleStaff) && *r.Role != string(RoleAdmin) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be staff or admin",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
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

type EmployeeResponse struct {
	ID             string   `json:"id"`
	ExternalUserID string   `json:"external_user_id"`
	FullName       string   `json:"full_name"`
	Role           string   `json:"role"`
	Status         string   `json:"status"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	RadiusMeters   *float64 `json:"radius_meters,omitempty"`
	CreatedAt      string   `json:"created_at"`
}
