package core

// error_messages.go defines user-friendly error messages with codes for
// support reference. When users encounter errors they can quote the code
// to support staff for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: upload exceeds the configured size limit
//	          Patterns: "file too large"
//
//	FILE002 - Unsupported format: extension is not .csv/.xlsx/.xls
//	          Patterns: "unsupported file format"
//
//	FILE003 - Empty file: the uploaded file has no content
//	          Patterns: "empty file"
//
//	FILE004 - No columns: the header row is missing or blank
//	          Patterns: "no columns found"
//
//	FILE005 - No data rows: the file has a header but no data
//	          Patterns: "no data rows"
//
//	FILE006 - Invalid file: the file could not be parsed at all
//	          Patterns: "invalid csv", "invalid spreadsheet"
//
// # Dataset Errors (DS001-DS099)
//
//	DS001 - Dataset not found: the session expired or was deleted
//	        Patterns: "dataset not found"
//
//	DS002 - Column not found: no column with that name exists
//	        Patterns: "column not found"
//
//	DS003 - Unknown type: the semantic type is not recognised
//	        Patterns: "unknown semantic type"
//
//	DS004 - Unknown method: the method is not valid for the column
//	        Patterns: "unknown method"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: too many uploads in progress
//	         Patterns: "too many concurrent uploads"
//
//	UPL002 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Tool Errors (TOOL001-TOOL099)
//
//	TOOL001 - Invalid pattern: the tool's regular expression is invalid
//	          Patterns: "invalid tool pattern"
//
//	TOOL002 - Tool not found
//	          Patterns: "tool not found"
//
//	TOOL003 - Not authorized: the tool belongs to another user
//	          Patterns: "not authorized"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused
//	        Patterns: "connection refused"
//
//	DB002 - Connection reset
//	        Patterns: "connection reset"
//
//	DB003 - Timeout
//	        Patterns: "timeout"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: fallback when no pattern matches
//
// Patterns are matched case-insensitively with strings.Contains; the
// first match wins, so specific patterns come before general ones.

import (
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

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. The first matching pattern wins, so order matters: more
// specific patterns come before general ones. When adding a pattern,
// update the package documentation at the top of this file.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file or remove unused columns and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "This file format is not supported",
			Action:  "Upload a .csv, .xlsx, or .xls file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no columns found",
		msg: UserMessage{
			Message: "No column headers were found",
			Action:  "Make sure the first row of your file contains column names",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file contains headers but no data",
			Action:  "Add at least one data row and upload again",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent quoting",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Re-save the workbook as .xlsx and try again",
			Code:    "FILE006",
		},
	},

	// Dataset errors
	{
		pattern: "dataset not found",
		msg: UserMessage{
			Message: "Dataset not found",
			Action:  "The session may have expired. Upload the file again",
			Code:    "DS001",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Column not found",
			Action:  "Verify the column name matches the file headers",
			Code:    "DS002",
		},
	},
	{
		pattern: "unknown semantic type",
		msg: UserMessage{
			Message: "Unknown column type",
			Action:  "Choose one of the supported column types",
			Code:    "DS003",
		},
	},
	{
		pattern: "unknown method",
		msg: UserMessage{
			Message: "This method is not available for the column",
			Action:  "Pick a method from the column's method list",
			Code:    "DS004",
		},
	},

	// Upload errors
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL003",
		},
	},

	// Tool errors
	{
		pattern: "invalid tool pattern",
		msg: UserMessage{
			Message: "The tool's pattern is not a valid regular expression",
			Action:  "Fix the pattern and save the tool again",
			Code:    "TOOL001",
		},
	},
	{
		pattern: "tool not found",
		msg: UserMessage{
			Message: "Custom tool not found",
			Action:  "The tool may have been deleted. Refresh the tool list",
			Code:    "TOOL002",
		},
	},
	{
		pattern: "not authorized",
		msg: UserMessage{
			Message: "You do not have access to this tool",
			Action:  "Only the tool's owner can change or delete it",
			Code:    "TOOL003",
		},
	},

	// Database connection errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000). Support
// staff should check application logs for the original technical error
// when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It
// searches the known patterns (case-insensitive) and returns the first
// match, falling back to ERR000.
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
