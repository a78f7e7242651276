package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out preconditions
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrNotCheckedIn          = errors.New("no open check-in for today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")

	// Admin resolution preconditions
	ErrNotFlagged      = errors.New("attendance record is not awaiting review")
	ErrAlreadyResolved = errors.New("attendance record has already been resolved")

	ErrRecordNotFound = errors.New("attendance record not found")
)
