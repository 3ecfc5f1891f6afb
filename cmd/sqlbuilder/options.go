package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/golobby/sqlbuilder"
)

type options struct {
	sqlbuilder.Config `mapstructure:",squash"`

	ConfigFile string `mapstructure:"config-file"`
	LogQueries bool   `mapstructure:"log-queries"`
}

// parseOptions layers flags, SQLBUILDER_* environment variables and an
// optional config file, in that order of precedence.
func parseOptions(cmd *cobra.Command, opts *options) error {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	v.SetConfigName("sqlbuilder")
	v.AddConfigPath("$HOME/.sqlbuilder")
	v.AddConfigPath(".")

	if f := cmd.Flags().Lookup("config-file"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	}

	v.SetEnvPrefix("SQLBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return v.Unmarshal(opts)
}
