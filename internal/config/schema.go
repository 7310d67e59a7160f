package config

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// Driver selects the storage backend
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// StorageConfig locates the tracker state
type StorageConfig struct {
	Driver Driver `yaml:"driver"`
	Path   string `yaml:"path"`
	// Format overrides the document format of the file driver ("json" or
	// "yaml"). Empty means infer from the path extension.
	Format string `yaml:"format,omitempty"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level"`
}
