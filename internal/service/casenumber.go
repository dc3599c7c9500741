package service

import "github.com/google/uuid"

// NewCaseNumber generates a globally unique case number for an inquiry.
// Case numbers are random 128-bit UUIDs rendered in canonical form, so
// uniqueness holds without coordination; the database unique index on
// case_number is the backstop.
func NewCaseNumber() string {
	return uuid.NewString()
}
