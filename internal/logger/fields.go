package logger

// Standard field names for structured logging.
const (
	FieldPath      = "path"
	FieldPrompt    = "prompt"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldErrorCode = "error_code"
	FieldCount     = "count"
	FieldEditor    = "editor"
)
