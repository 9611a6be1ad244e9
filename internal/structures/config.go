package structures

import "time"

type StorageConfig struct {
	BasePath         string `yaml:"basePath" validate:"required"`
	ConvertedPath    string `yaml:"convertedPath" validate:"required"`
	ClientConfigFile string `yaml:"clientConfigFile" validate:"required"`
	ServerConfigFile string `yaml:"serverConfigFile" validate:"required"`
}

type ConversionConfig struct {
	PollInterval   time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	JoinTimeout    time.Duration `yaml:"joinTimeout" validate:"required|min:1"`
	FallbackWidth  int           `yaml:"fallbackWidth" validate:"required|min:1"`
	FallbackHeight int           `yaml:"fallbackHeight" validate:"required|min:1"`
}

type ThumbnailConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxWidth int  `yaml:"maxWidth"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type HistoryConfig struct {
	FilePath   string `yaml:"filePath" validate:"required"`
	MaxRecords int    `yaml:"maxRecords"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	Storage    StorageConfig    `yaml:"storage"`
	Conversion ConversionConfig `yaml:"conversion"`
	Thumbnail  ThumbnailConfig  `yaml:"thumbnail"`
	History    HistoryConfig    `yaml:"history"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
