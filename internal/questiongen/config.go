package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every generated
	// question. A question failing any of them is dropped.
	Validators []Validator

	// BatchSize is how many questions are requested per LLM call.
	BatchSize int

	// MaxTokensPerQuestion sizes the response budget of a batch.
	MaxTokensPerQuestion int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions
	// to include in the prompt for deduplication.
	MaxPriorQuestions int

	// MaxExtraBatches bounds the calls made beyond the minimum needed to
	// reach the requested count.
	MaxExtraBatches int

	// TextFallback retries a batch in the plain "Q:/A./Answer:" text format
	// when the provider returns unusable structured output.
	TextFallback bool
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DedupValidator{},
		},
		BatchSize:            5,
		MaxTokensPerQuestion: 500,
		Temperature:          0.7,
		MaxPriorQuestions:    20,
		MaxExtraBatches:      2,
		TextFallback:         true,
	}
}
