package classify

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThreshold sets the distance below which a template counts as a match.
// Non-positive values are ignored.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithSampleCount sets the length strokes are normalized to before matching.
// It must equal the length of the stored templates.
func WithSampleCount(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.sampleCount = n
		}
	}
}

// WithMatcher replaces the elastic matcher.
func WithMatcher(m Distancer) Option {
	return func(c *Classifier) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithWorkers sets how many goroutines compare templates in parallel.
// 1 (the default) compares on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}
