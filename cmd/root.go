package cmd

import (
	"github.com/paulvitic/hotel-booking/config"
	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "hotel-booking",
	Short:        "A hotel room booking service",
	Long:         `Registers users and rooms, admits reservations that do not overlap and answers which rooms are free for a stay.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config-dir", "c", "configs",
		"directory holding properties[.<profile>].json")
	rootCmd.PersistentFlags().StringP("profile", "p", "",
		"properties profile, e.g. dev reads properties.dev.json (env: HOTEL_PROFILE)")

	_ = viper.BindPFlag("configDir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindEnv("profile", "HOTEL_PROFILE")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func configDir() string {
	return viper.GetString("configDir")
}

func profile() string {
	return viper.GetString("profile")
}

// loadProperties reads the configured profile and returns a logger at its level.
func loadProperties() (*config.Properties, *ddd.Logger, error) {
	props, err := config.Load(configDir(), profile())
	if err != nil {
		return nil, nil, err
	}
	logger := ddd.NewLogger("hotel-booking")
	logger.SetLevel(ddd.ParseLevel(props.Logging.Level))
	if props.FilePath != "" {
		logger.Info("loaded properties from %s", props.FilePath)
	} else {
		logger.Info("no properties file in %s, using defaults", configDir())
	}
	return props, logger, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
