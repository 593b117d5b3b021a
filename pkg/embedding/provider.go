package embedding

import "context"

// Provider turns raw text into a fixed-length vector.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
