package domain

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "paperlens:"

// PipelineConfig holds document pipeline settings, not exposed to clients.
type PipelineConfig struct {
	MaxTextChars int // raw text is truncated to this many runes before processing
	PromptChars  int // runes of text embedded into the completion prompt
	Dimensions   int
	MaxBatchSize int
	BatchWorkers int
}

// DefaultPipelineConfig returns the defaults used when config leaves fields unset.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxTextChars: 50000,
		PromptChars:  4000,
		Dimensions:   128,
		MaxBatchSize: 100,
		BatchWorkers: 4,
	}
}
