package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// # Settings Errors (CFG001-CFG099)
//
//	CFG001 - Invalid settings: The analysis options are not valid
//	         Action: Check column, range, delimiter and encoding options
//	         Patterns: "invalid settings", "config validation"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Input not found: The input file does not exist
//	          Action: Check the --input path
//	          Patterns: "input file not found"
//
//	FILE002 - Malformed CSV: The file could not be parsed as delimited text
//	          Action: Check the delimiter and quoting of the file
//	          Patterns: "malformed csv"
//
//	FILE003 - Encoding: The input encoding is not supported
//	          Action: Use utf-8, utf-16, latin1 or windows-1252
//	          Patterns: "unsupported encoding"
//
//	FILE004 - No file: No file was provided
//	          Action: Attach a CSV file as the "file" form field
//	          Patterns: "no file provided"
//
//	FILE005 - File too large: The upload exceeds the size limit
//	          Action: Split the file or raise SERVER_MAX_UPLOAD_SIZE
//	          Patterns: "request body too large", "file too large"
//
//	FILE006 - Permission denied: The file or output directory is not accessible
//	          Action: Check file permissions and the --outdir path
//	          Patterns: "permission denied"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The analysis was cancelled
//	         Action: Start the analysis again
//	         Patterns: "context canceled"
//
//	RUN002 - Timeout: The analysis took too long
//	         Action: Try a smaller file or raise SERVER_REQUEST_TIMEOUT
//	         Patterns: "context deadline exceeded"
//
//	RUN003 - Busy: The server is busy with other analyses
//	         Action: Retry shortly or raise SERVER_MAX_CONCURRENT
//	         Patterns: "too many concurrent analyses"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Run again with --log-level debug and check the logs
//
// Patterns are matched case-insensitively using strings.Contains and the
// first matching pattern wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Settings Errors (CFG001)
	// =========================================================================
	{
		pattern: "invalid settings",
		msg: UserMessage{
			Message: "The analysis options are not valid",
			Action:  "Check column, range, delimiter and encoding options",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "The analysis options are not valid",
			Action:  "Check column, range, delimiter and encoding options",
			Code:    "CFG001",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "input file not found",
		msg: UserMessage{
			Message: "The input file does not exist",
			Action:  "Check the --input path",
			Code:    "FILE001",
		},
	},
	{
		pattern: "malformed csv",
		msg: UserMessage{
			Message: "The file could not be parsed as delimited text",
			Action:  "Check the delimiter and quoting of the file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported encoding",
		msg: UserMessage{
			Message: "The input encoding is not supported",
			Action:  "Use utf-8, utf-16, latin1 or windows-1252",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was provided",
			Action:  "Attach a CSV file as the \"file\" form field",
			Code:    "FILE004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Split the file or raise SERVER_MAX_UPLOAD_SIZE",
			Code:    "FILE005",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Split the file or raise SERVER_MAX_UPLOAD_SIZE",
			Code:    "FILE005",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file or output directory is not accessible",
			Action:  "Check file permissions and the --outdir path",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN003)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The analysis was cancelled",
			Action:  "Start the analysis again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The analysis took too long",
			Action:  "Try a smaller file or raise SERVER_REQUEST_TIMEOUT",
			Code:    "RUN002",
		},
	},
	{
		pattern: "too many concurrent analyses",
		msg: UserMessage{
			Message: "The server is busy with other analyses",
			Action:  "Retry shortly or raise SERVER_MAX_CONCURRENT",
			Code:    "RUN003",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Run again with --log-level debug and check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: data.csv", ErrInputNotFound))
//	// msg.Code == "FILE001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
