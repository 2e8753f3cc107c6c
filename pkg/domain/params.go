package domain

// Params is the per-call completion configuration. Fixed for the lifetime of
// an interactive session, fixed per call in one-shot mode.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}
