package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atlantis-diagrams/atlantis-backend/config"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store/filestore"
)

const (
	configFileName = "atlantis"
	configFileType = "yaml"
	envPrefix      = "ATLANTIS"

	cfgKeyDatabaseURL = "database_url"
	cfgKeyDBDriver    = "db_driver"
	cfgKeyDataFile    = "data_file"
	cfgKeyBackupDir   = "backup_dir"
	cfgKeyRedisAddr   = "redis_addr"
	cfgKeyRedisPass   = "redis_password"
	cfgKeyRedisDB     = "redis_db"
)

// loadConfig reads atlantis.yaml (explicit path, else the working
// directory) and layers ATLANTIS_* env vars and bound flags over it. A
// missing config file is not an error.
func loadConfig(cmd *cobra.Command, path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDatabaseURL, config.DatabaseURL())
	v.SetDefault(cfgKeyDBDriver, "pgx")
	v.SetDefault(cfgKeyDataFile, filestore.DefaultPath)
	v.SetDefault(cfgKeyBackupDir, "./data/backups")
	cc := config.CacheFromEnv()
	v.SetDefault(cfgKeyRedisAddr, cc.RedisAddr)
	v.SetDefault(cfgKeyRedisPass, cc.RedisPassword)
	v.SetDefault(cfgKeyRedisDB, cc.RedisDB)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := map[string]string{
		cfgKeyDatabaseURL: "database-url",
		cfgKeyDBDriver:    "db-driver",
		cfgKeyDataFile:    "data-file",
		cfgKeyBackupDir:   "backup-dir",
		cfgKeyRedisAddr:   "redis-addr",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
