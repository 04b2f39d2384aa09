package core

// error_messages.go maps technical pipeline errors to user-friendly
// messages with support codes.
//
// # Error Codes Reference
//
// File errors (FILE001-FILE099):
//
//	FILE001 - File too large: File exceeds the configured size limit
//	          Action: Split the file into smaller exports
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported type: File is not a recognized CSV upload
//	          Action: Export as CSV (.csv) from the CRM
//	          Patterns: "unsupported file type"
//
//	FILE003 - Encoding error: File content is not valid UTF-8
//	          Action: Re-export the file with UTF-8 encoding
//	          Patterns: "not valid utf-8"
//
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Action: Upload a CSV export containing data rows
//	          Patterns: "file is empty", "no data rows", "has no content"
//
// Parse errors (CSV001-CSV099):
//
//	CSV001 - Invalid headers: Required columns are missing
//	         Action: Export the file again without removing columns
//	         Patterns: "missing required headers"
//
//	CSV002 - Malformed row: A row could not be mapped to a record
//	         Action: Download the row-level errors to fix the source data
//	         Patterns: "expected", "missing required field"
//
// Request errors (REQ001-REQ099):
//
//	REQ001 - Unknown shape: The requested import shape is not registered
//	         Action: Use one of the shapes listed at /api/shapes
//	         Patterns: "unknown shape"
//
//	REQ002 - Invalid mode: Validation mode must be strict or lenient
//	         Action: Pass mode=strict or mode=lenient
//	         Patterns: "invalid validation mode"

import (
	"fmt"
	"strings"
)

// UserMessage is a user-facing rendering of a technical error.
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

// errorPatterns maps technical error substrings (case-insensitive) to
// user messages. The first matching pattern wins, so more specific
// patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum upload size",
			Action:  "Split the export into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "The file is not a recognized CSV upload",
			Action:  "Export as CSV (.csv) from the CRM",
			Code:    "FILE002",
		},
	},
	{
		pattern: "not valid utf-8",
		msg: UserMessage{
			Message: "The file contains invalid characters",
			Action:  "Re-export the file with UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV export containing data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file has a header but no data rows",
			Action:  "Upload a CSV export containing data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "has no content",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV export containing data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "missing required headers",
		msg: UserMessage{
			Message: "Required columns are missing from the file",
			Action:  "Export the file again without removing columns",
			Code:    "CSV001",
		},
	},
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A row is missing a required value",
			Action:  "Review the row-level errors and fix the source data",
			Code:    "CSV002",
		},
	},
	{
		pattern: "unknown shape",
		msg: UserMessage{
			Message: "The requested import type does not exist",
			Action:  "Use one of the shapes listed at /api/shapes",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid validation mode",
		msg: UserMessage{
			Message: "The validation mode is not recognized",
			Action:  "Pass mode=strict or mode=lenient",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred while processing the file",
	Action:  "Try again; if the problem persists, quote the request ID to support",
	Code:    "GEN001",
}

// MapError converts a technical error to a user-friendly message.
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

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
