package sketchbench

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Generation ranges for query strokes.
const (
	minQueryPoints = 24
	maxQueryPoints = 160
	minScale       = 0.25
	maxScale       = 4.0
	maxOffset      = 500.0
)

// PercentageMultiplier converts fractions to percentages for reports.
const PercentageMultiplier = 100
