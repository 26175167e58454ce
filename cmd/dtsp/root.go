// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	dtsp "github.com/lokhman/dtsp-go"
)

var (
	cfgFile  string
	logLevel slog.LevelVar
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "dtsp",
	Short: "Seal and open Data Transfer Security Protocol frames",
	Long: `Seal and open Data Transfer Security Protocol (DTSP) frames.

DTSP wraps application payloads in self-contained encrypted frames whose
keys rotate automatically in time. Peers need no handshake: a shared seed,
a shared device identifier, and clocks that agree within 15 seconds.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
		Level: &logLevel,
	})))

	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug contents")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// Load the process configuration. The two protocol values are read once at
// start and never mutated: "seed" must be identical on all peers, "udid"
// is the device tag folded into the UDID base. The "PHP" default keeps
// interoperability with default-configured installations of the original
// extension.
func loadConfig() {
	viper.SetDefault("udid", "PHP")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dtsp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/dtsp")
	}

	viper.SetEnvPrefix("dtsp")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read configuration", "error", err)
			os.Exit(1)
		}
	}

	if viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
}

// newEngine builds the process-wide engine from the loaded configuration.
func newEngine() (*dtsp.Engine, error) {
	seed := []byte(viper.GetString("seed"))
	udid := []byte(viper.GetString("udid"))
	return dtsp.New(seed, udid)
}
