package domain

// Context is the value handed to a run. Transformers mutate it in place.
type Context map[string]any

// Transformer is produced by a smart plugin at registration time and applied
// to the Context on every run.
type Transformer func(ctx Context) error
