package service

import (
	"errors"

	"github.com/fremdrift-as/inquiry-api/internal/outlook"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrExternal is returned when an external collaborator fails or
	// responds with something we cannot use
	ErrExternal = errors.New("external service failure")

	// ErrInvalidStatus is returned when an unknown inquiry status is provided
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNotArchived is returned when restoring an inquiry that is not archived
	ErrNotArchived = errors.New("inquiry is not archived")

	// ErrTagNotFound is returned when removing a tag the inquiry does not carry
	ErrTagNotFound = errors.New("tag not found on inquiry")

	// ErrNotCommentAuthor is returned when a user edits or deletes someone else's comment
	ErrNotCommentAuthor = errors.New("only the comment author may modify it")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAdmin is returned when assigning an inquiry to a non-admin user
	ErrNotAdmin = errors.New("user does not have the admin role")

	// ErrDuplicateEmail is returned when an email address is already registered
	ErrDuplicateEmail = errors.New("email address already in use")

	// ErrInvalidCredentials is returned on failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a password fails the strength rules
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrAlreadyVerified is returned when verifying an already verified account
	ErrAlreadyVerified = errors.New("account is already verified")

	// ErrInvalidToken is returned for expired or malformed one-time tokens
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNoContacts is returned when the contact directory has no candidates
	ErrNoContacts = errors.New("no contacts available")

	// ErrAIResponseInvalid is returned when the AI reply cannot be parsed
	ErrAIResponseInvalid = errors.New("could not parse AI response")

	// ErrMicrosoftAuthExpired is returned when the Outlook token refresh fails
	ErrMicrosoftAuthExpired = outlook.ErrAuthExpired
)
