package response

import (
	"errors"
	"net/http"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/approval"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/platform"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity / trust boundary
	case errors.Is(err, identity.ErrUnknownUser):
		Unauthorized(w, "No employee is linked to this account")
	case errors.Is(err, identity.ErrEmployeeInactive):
		Forbidden(w, "Employee account is inactive")
	case errors.Is(err, identity.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, identity.ErrForbidden):
		Forbidden(w, "Not allowed to act on this resource")
	case errors.Is(err, platform.ErrInitDataInvalid),
		errors.Is(err, platform.ErrInitDataExpired):
		Unauthorized(w, "Invalid sign-in data")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrExternalUserExists):
		Conflict(w, "Chat account already linked to an employee")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrCannotDeactivateSelf):
		BadRequest(w, "Cannot deactivate your own employee record", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open check-in for today")
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		Conflict(w, "Check-out must be after check-in")
	case errors.Is(err, attendance.ErrNotFlagged):
		Conflict(w, "Attendance record is not awaiting review")
	case errors.Is(err, attendance.ErrAlreadyResolved):
		Conflict(w, "Attendance record already resolved")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrOverlap):
		Conflict(w, "Date range overlaps an approved leave")
	case errors.Is(err, leave.ErrDuplicateRequest):
		Conflict(w, "An identical pending leave request already exists")
	case errors.Is(err, leave.ErrQuotaExceeded):
		Conflict(w, "Insufficient leave quota")
	case errors.Is(err, leave.ErrQuotaNotFound):
		BadRequest(w, "No leave quota for this type and year", nil)
	case errors.Is(err, leave.ErrAlreadyResolved):
		Conflict(w, "Leave request already resolved")

	// Advance domain errors
	case errors.Is(err, advance.ErrRequestNotFound):
		NotFound(w, "Advance request not found")
	case errors.Is(err, advance.ErrCapExceeded):
		Conflict(w, "Requested amount exceeds the available advance cap")
	case errors.Is(err, advance.ErrDuplicateRequest):
		Conflict(w, "An identical pending advance request already exists")
	case errors.Is(err, advance.ErrAlreadyResolved):
		Conflict(w, "Advance request already resolved")

	// Approval pipeline errors
	case errors.Is(err, approval.ErrUnknownKind):
		BadRequest(w, "Unknown approval item kind", nil)
	case errors.Is(err, approval.ErrAlreadyResolved):
		Conflict(w, "Approval item already resolved")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
