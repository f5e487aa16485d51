// Package cli implements the pdv command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/pdv/internal/config"
	"github.com/bnema/pdv/pkg/logger"
)

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string

	v         *viper.Viper
	cfg       *config.Config
	logCloser io.Closer
}

// NewRootCmd creates the pdv root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "pdv",
		Short: "pdv - point of sale and stock control server",
		Long: `pdv serves a JSON API for products, stock movements, clients and
accounts, backed by SQLite. Administrators can snapshot every table to a
JSON file and restore a snapshot later.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: ./pdv.yaml, $XDG_CONFIG_HOME/pdv/pdv.yaml, /etc/pdv/pdv.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newBackupCmd(opts))
	cmd.AddCommand(newUserCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load reads .env, the config file and the environment, then sets up logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", o.envFile, err)
		}
	}

	config.SetDefaults(o.v)
	if o.configFile != "" {
		o.v.SetConfigFile(o.configFile)
	} else {
		o.v.SetConfigName("pdv")
		o.v.SetConfigType("yaml")
		o.v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			o.v.AddConfigPath(filepath.Join(dir, "pdv"))
		}
		o.v.AddConfigPath("/etc/pdv")
	}

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if o.logLevel != "" {
		o.v.Set("logging.level", o.logLevel)
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	closer, err := logger.Setup(cfg.Logging.Level, logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return err
	}
	o.logCloser = closer

	if used := o.v.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", "file", used)
	}
	return nil
}
