package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:      "console",
		Concurrency: 5,
		Parallel:    BoolPtr(false),
		Bail:        BoolPtr(false),
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
	}
}
