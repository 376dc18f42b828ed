package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/drivelinehq/driveline/internal/server"
	"github.com/drivelinehq/driveline/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "driveline",
	Short:   "Driveline change-sync server",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var config server.Config
		if err := viper.Unmarshal(&config); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}

		cmd.SilenceUsage = true
		slog.Info("driveline", "version", version.Version)

		s, err := server.New(&config)
		if err != nil {
			return err
		}

		defer slog.Info("Bye!")
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	rootCmd.Flags().StringP("public-url", "u", "", "Externally reachable base URL for push callbacks")
	rootCmd.Flags().String("db", server.DefaultDBPath, "Path to the SQLite database")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file")
}

func main() {
	// local development overrides
	_ = godotenv.Load()

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/driveline")
		viper.SetConfigName("driveline")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("http.addr", cmd.Flags().Lookup("bind"))
	viper.BindPFlag("public_url", cmd.Flags().Lookup("public-url"))
	viper.BindPFlag("db_path", cmd.Flags().Lookup("db"))

	viper.SetEnvPrefix("DRIVELINE")
	viper.AutomaticEnv()

	return nil
}
