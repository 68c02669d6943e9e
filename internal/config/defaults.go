package config

const (
	DefaultMinLineLength = 3
	DefaultMaxLineLength = 200
	DefaultMaxLLMTokens  = 1500
	DefaultMaxInputBytes = 2 << 20
)

// DefaultPreprocess returns the pipeline configuration used when nothing is set.
func DefaultPreprocess() PreprocessConfig {
	p := PreprocessConfig{}
	applyPreprocessDefaults(&p)
	return p
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	applyServiceDefaults(cfg)
	applyPreprocessDefaults(&cfg.Preprocess)
}

// applyServiceDefaults covers the settings where a zero value is never meaningful.
func applyServiceDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".ocr", ".pdf", ".xlsx", ".docx"}
	}
}

func applyPreprocessDefaults(p *PreprocessConfig) {
	if p.MinLineLength == 0 {
		p.MinLineLength = DefaultMinLineLength
	}
	if p.MaxLineLength == 0 {
		p.MaxLineLength = DefaultMaxLineLength
	}
	if p.MaxLLMTokens == 0 {
		p.MaxLLMTokens = DefaultMaxLLMTokens
	}
	if p.MaxInputBytes == 0 {
		p.MaxInputBytes = DefaultMaxInputBytes
	}
	if p.EnableNoiseRemoval == nil {
		p.EnableNoiseRemoval = Bool(true)
	}
	if p.EnableFieldDetection == nil {
		p.EnableFieldDetection = Bool(true)
	}
	if p.EnableSmartChunking == nil {
		p.EnableSmartChunking = Bool(true)
	}
}
