package incidents

import "errors"

var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrInvalidIncident  = errors.New("invalid incident")

	// ErrDuplicateIdentity indicates a sys_id or number collision at
	// creation. This is a programming error, not a user-facing condition.
	ErrDuplicateIdentity = errors.New("duplicate incident identity")

	ErrShortDescriptionRequired = errors.New("short description is required")
	ErrResolutionRequired       = errors.New("resolution code and resolution notes are required to resolve an incident")
	ErrInvalidState             = errors.New("invalid incident state")
	ErrEmptyComment             = errors.New("comment text is empty")
	ErrForbidden                = errors.New("persona may not access this incident")
)
