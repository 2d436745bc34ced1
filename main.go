package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldworks/apkex/cmd"
)

// CmdRoot defines the root command.
var CmdRoot = &cobra.Command{
	Use:               "apkex [command]",
	Short:             "List installed Android apps and export their APKs",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// Initialize command options
func init() {
	CmdRoot.PersistentFlags().StringP("config", "c", "", "configuration file")
	CmdRoot.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	CmdRoot.PersistentFlags().String("adb", "adb", "path to the adb binary")
	CmdRoot.PersistentFlags().String("remote", "", "address (host:port) of a rooted device reached over SSH instead of adb")
	CmdRoot.PersistentFlags().String("remote-user", "root", "SSH user for the remote device")
	CmdRoot.PersistentFlags().String("remote-password", "", "SSH password for the remote device")

	_ = viper.BindPFlags(CmdRoot.PersistentFlags())

	CmdRoot.AddCommand(cmd.CmdList, cmd.CmdExtract, cmd.CmdPick)
}

// setup configures logging and reads the configuration file before any
// sub-command runs.
func setup(_ *cobra.Command, _ []string) error {
	// Logging
	logger := pterm.DefaultLogger
	if viper.GetBool("verbose") {
		logger.Level = pterm.LogLevelDebug
	}

	slog.SetDefault(slog.New(pterm.NewSlogHandler(&logger)))

	// Configuration
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "apkex"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("APKEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read configuration: %w", err)
		}
	}

	return nil
}

func main() {
	if err := CmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}
