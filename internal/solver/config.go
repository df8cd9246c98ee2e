package solver

// Config holds the tunables for the facility placement solver.
// It is loaded from environment variables or a config file.
type Config struct {
	// Cost model rates
	DistanceRatePerKm float64 `mapstructure:"distance_rate_per_km"`
	VolumeRatePerM3   float64 `mapstructure:"volume_rate_per_m3"`

	// Solver limits
	MaxIterations     int     `mapstructure:"max_iterations"`
	GradientThreshold float64 `mapstructure:"gradient_threshold"`
}

// Defaults returns the default solver configuration. The rates match the
// reference tariffs: 0.5 currency units per km and 10 per cubic meter.
func Defaults() *Config {
	return &Config{
		DistanceRatePerKm: 0.5,
		VolumeRatePerM3:   10,
		MaxIterations:     200,
		GradientThreshold: 0, // 0 = solver default
	}
}

// DefaultRates returns the cost model tariffs from the configuration.
func (c *Config) DefaultRates() Rates {
	return Rates{DistancePerKm: c.DistanceRatePerKm, VolumePerM3: c.VolumeRatePerM3}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.DistanceRatePerKm < 0 {
		return ErrInvalidConfig{Field: "distance_rate_per_km", Reason: "must be non-negative"}
	}
	if c.VolumeRatePerM3 < 0 {
		return ErrInvalidConfig{Field: "volume_rate_per_m3", Reason: "must be non-negative"}
	}
	if c.MaxIterations < 1 {
		return ErrInvalidConfig{Field: "max_iterations", Reason: "must be at least 1"}
	}
	if c.GradientThreshold < 0 {
		return ErrInvalidConfig{Field: "gradient_threshold", Reason: "must be non-negative"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
