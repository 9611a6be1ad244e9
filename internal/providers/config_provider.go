package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"snaplogd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("conversion.pollInterval", time.Second)
	viper.SetDefault("conversion.joinTimeout", 2*time.Second)
	viper.SetDefault("conversion.fallbackWidth", 1920)
	viper.SetDefault("conversion.fallbackHeight", 1080)
	viper.SetDefault("thumbnail.maxWidth", 320)
	viper.SetDefault("history.maxRecords", 200)
	viper.SetDefault("cache.ttl", 3600)

	viper.BindEnv("logger.level", "SNAPLOGD_LOG_LEVEL")
	viper.BindEnv("storage.basePath", "SNAPLOGD_BASE_PATH")
	viper.BindEnv("storage.convertedPath", "SNAPLOGD_CONVERTED_PATH")
	viper.BindEnv("conversion.pollInterval", "SNAPLOGD_POLL_INTERVAL")
	viper.BindEnv("cache.enabled", "SNAPLOGD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SNAPLOGD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SnapLogConversionDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
