package main

// Exit codes returned by paperhub commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (missing hub, invalid config)
	ExitProviderError = 3 // Embedding provider unavailable
	ExitNotFound      = 4 // Referenced paper does not exist
	ExitNotEmbedded   = 5 // Paper exists but has no embedding
	ExitModelNotFound = 6 // Embedding model not pulled
)
