package cli

// CLIError is a structured error used for consistent NDJSON/text emission.
// Commands return it after the error has already been written out.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
