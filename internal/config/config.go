// Package config provides configuration types and defaults for skilltree.
package config

// Config holds all configuration for skilltree.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Policy  PolicyConfig  `yaml:"policy" mapstructure:"policy"`
	Layout  LayoutConfig  `yaml:"layout" mapstructure:"layout"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	DBPath        string `yaml:"db_path" mapstructure:"db_path"`               // Empty = SKILLTREE_DB or XDG default
	KeepSnapshots int    `yaml:"keep_snapshots" mapstructure:"keep_snapshots"` // Saved trees retained for history
	MaxBytes      int    `yaml:"max_bytes" mapstructure:"max_bytes"`           // Largest accepted serialized tree (0 = unlimited)
}

// PolicyConfig holds connection rules that not every deployment wants.
type PolicyConfig struct {
	RejectLockedIntoUnlocked bool `yaml:"reject_locked_into_unlocked" mapstructure:"reject_locked_into_unlocked"`
}

// LayoutConfig controls where new skills are placed.
type LayoutConfig struct {
	OriginX float64 `yaml:"origin_x" mapstructure:"origin_x"`
	OriginY float64 `yaml:"origin_y" mapstructure:"origin_y"`
	Jitter  float64 `yaml:"jitter" mapstructure:"jitter"` // Max offset on each axis
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level    string            `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format   string            `yaml:"format" mapstructure:"format"` // text or json
	File     string            `yaml:"file" mapstructure:"file"`     // Empty = stderr (CLI) or data dir (TUI)
	Rotation LogRotationConfig `yaml:"rotation" mapstructure:"rotation"`
}

// LogRotationConfig holds settings for log file rotation.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			KeepSnapshots: 20,
			MaxBytes:      5 << 20,
		},
		Policy: PolicyConfig{
			RejectLockedIntoUnlocked: true,
		},
		Layout: LayoutConfig{
			OriginX: 200,
			OriginY: 100,
			Jitter:  30,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			Rotation: LogRotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
	}
}
