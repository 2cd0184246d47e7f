package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/nooize/paysdk/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	envFile    string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paysdk",
	Short: "Command line tool for the payment SDK current user and Google Pay integrations.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if logger, err = cfg.Log.Logger(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func loadEnvFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && path == ".env" {
			return nil
		}
		return errors.Wrap(err, "env file")
	}
	return errors.Wrap(godotenv.Load(path), "env file")
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with PAYSDK_* variables")
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
