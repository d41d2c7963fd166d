package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as indented JSON to stdout.
func outputJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: encoding output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// outputError reports an error in the selected output mode and returns the
// exit code for the caller to use.
func outputError(code int, format string, args ...any) int {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	return code
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
