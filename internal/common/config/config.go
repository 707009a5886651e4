// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// TelegramConfig holds settings for the chat transport.
type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"` // seconds
}

// TemplatesConfig holds settings for document templates and outputs.
type TemplatesConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
	Dir          string `mapstructure:"dir"`
	OutputDir    string `mapstructure:"output_dir"`
}

// ProfileConfig selects and configures the answer-profile backend.
type ProfileConfig struct {
	Backend string      `mapstructure:"backend"` // "redis" or "file"
	Redis   RedisConfig `mapstructure:"redis"`
	FileDir string      `mapstructure:"file_dir"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds settings for the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
