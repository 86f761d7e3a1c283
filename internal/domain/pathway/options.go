package pathway

// Defaults from the IPCC AR6 WGIII SPM, section C.1.1: 43% (1.5C) and 27% (2.0C)
// reductions from 2019 levels by 2030.
const (
	DefaultBaselineYear  = 2019
	DefaultTargetValue15 = 43.0
	DefaultTargetValue20 = 27.0
)

// Option applies a configuration option to an IPCC range calculation.
type Option func(*rangeConfig)

type rangeConfig struct {
	actorID       string
	baselineYear  int
	targetValue15 float64
	targetValue20 float64
}

func defaultRangeConfig() rangeConfig {
	return rangeConfig{
		baselineYear:  DefaultBaselineYear,
		targetValue15: DefaultTargetValue15,
		targetValue20: DefaultTargetValue20,
	}
}

// WithActor restricts the emissions table to one actor before the baseline
// lookup. Only needed when the table holds several actors.
func WithActor(actorID string) Option {
	return func(c *rangeConfig) {
		c.actorID = actorID
	}
}

// WithBaselineYear sets the baseline year.
func WithBaselineYear(year int) Option {
	return func(c *rangeConfig) {
		c.baselineYear = year
	}
}

// WithTargetValue15 sets the percent reduction for the 1.5C pathway.
func WithTargetValue15(v float64) Option {
	return func(c *rangeConfig) {
		c.targetValue15 = v
	}
}

// WithTargetValue20 sets the percent reduction for the 2.0C pathway.
func WithTargetValue20(v float64) Option {
	return func(c *rangeConfig) {
		c.targetValue20 = v
	}
}

// WithTargetValues sets the percent reductions for the 1.5C and 2.0C pathways.
func WithTargetValues(targetValue15, targetValue20 float64) Option {
	return func(c *rangeConfig) {
		c.targetValue15 = targetValue15
		c.targetValue20 = targetValue20
	}
}
