package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success (including runs with zero matches)
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration or missing-input error
	ExitDataError   = 3 // Data error (unreadable source, conversion failure)
)
