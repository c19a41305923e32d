package macros

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "macros",
	Short: "macros keeps nutrient profiles for foods, meals and goals",
	Long: `macros stores per-quantity nutrient profiles for foods, assembles them into meals
with unit and density aware scaling, and compares the totals against nutrient goals.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.macros.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("db", "", "path to SQLite database")
	flags.String("driver", "sqlite", "database driver: sqlite or pgx")
	flags.String("dsn", "", "Postgres connection string (driver pgx)")
	flags.String("registry", "", "YAML file with extra units and nutrients")

	for _, key := range []string{"verbose", "db", "driver", "dsn", "registry"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	viper.SetDefault("complete_if_present", true)
}

// initConfig loads configuration from the config file and MACROS_* environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".macros")
	}

	viper.SetEnvPrefix("macros")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
