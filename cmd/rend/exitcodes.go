package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid values)
	ExitDataError   = 3 // Data error (missing dataset, missing column, nothing after filtering)
	ExitFetchError  = 4 // Dataset download failed
)
