// Package core defines the fundamental types and errors for sohayok.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Storage errors
	ErrRecordNotFound = errors.New("record not found")

	// Person errors
	ErrPersonNotFound = errors.New("person not found")
	ErrPersonExists   = errors.New("person already exists")

	// Student errors
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already registered")

	// Dispatch errors
	ErrPermissionDenied = errors.New("permission denied")

	// Collaborator errors
	ErrLLMUnavailable    = errors.New("LLM service unavailable")
	ErrSearchUnavailable = errors.New("web search unavailable")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrMotionUnavailable = errors.New("motion system unavailable")

	// Validation errors
	ErrUnknownLanguage   = errors.New("unsupported language")
	ErrMissingRequired   = errors.New("missing required field")
	ErrInvalidAttendance = errors.New("invalid attendance status")
)
