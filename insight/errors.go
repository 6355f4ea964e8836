package insight

import "errors"

var (
	// ErrMissingEmotion means a rule needed a label the distribution lacks.
	ErrMissingEmotion = errors.New("insight: emotion label missing from distribution")
	// ErrMissingTemplate means a detected category has no template to render it.
	ErrMissingTemplate = errors.New("insight: no template for category")
	// ErrInvalidConfig is returned by NewEngine and LoadConfig.
	ErrInvalidConfig = errors.New("insight: invalid rule configuration")
)
