package response

import "todoflow/pkg/timecalc"

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "internal server error"
)

// Service error codes carried in the JSON envelope.
const (
	BadRequestCode          = 1
	EmptyInputCode          = 1001
	EmptyImageCode          = 1002
	TaskNotFoundCode        = 1404
	SessionNotFoundCode     = 1410
	UnauthorizedCode        = 401
	ForbiddenCode           = 403
	TooManyRequestsCode     = 429
	InternalServerErrorCode = 500
)

// Wire formats follow the canonical task date and time formats.
const (
	DateFormat     = timecalc.DateFormat
	DateTimeFormat = timecalc.DateFormat + " " + timecalc.TimeFormat
)
