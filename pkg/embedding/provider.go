package embedding

// Provider generates text embeddings for knowledge-base search.
type Provider interface {
	Generate(text string) ([]float32, error)
}
