package repository

// Option applies a configuration option to the TemplateStore.
type Option func(*TemplateStore)

// WithSampleCount sets the length raw strokes are normalized to on Load and
// UpsertStroke.
func WithSampleCount(n int) Option {
	return func(s *TemplateStore) {
		if n > 0 {
			s.sampleCount = n
		}
	}
}
