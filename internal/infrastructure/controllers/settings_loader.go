package controllers

import (
	"errors"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// loadSettings reads the file named by --config, or the first one found in
// the default locations. Without any file the defaults apply. A --token flag
// takes precedence over the configured token.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	token, _ := cmd.Flags().GetString("token")

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil && !errors.Is(err, entities.ErrConfigNotFound) {
			return nil, err
		}
	}

	var settings *entities.Settings
	if cfgPath == "" {
		logger.Debug("No config file found, using defaults")
		settings = entities.DefaultSettings()
	} else {
		logger.Infof("Using config file: %s", cfgPath)
		var err error
		settings, err = entities.NewSettings(cfgPath)
		if err != nil {
			return nil, err
		}
	}

	if token != "" {
		settings.GitHubToken = token
	}
	return settings, nil
}

// stringOption returns the flag value, falling back to the environment
// variable env when the flag was not given.
func stringOption(cmd *cobra.Command, flag, env string) string {
	if value, _ := cmd.Flags().GetString(flag); value != "" {
		return value
	}
	return os.Getenv(env)
}
