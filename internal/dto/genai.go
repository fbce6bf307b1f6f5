package dto

// GenerateRequest is the provider-neutral prompt passed to a text generator.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature *float32
	// JSON asks the provider for an application/json response.
	JSON bool
}
