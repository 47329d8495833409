package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. FRACALLOC_STEPS=200.
const envPrefix = "FRACALLOC"

// NewRootCmd builds the CLI command tree. Every flag can also be set from the
// environment as FRACALLOC_<FLAG>, with dashes mapped to underscores.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "fracalloc",
		Short:        "Revenue-maximizing allocation of a divisible resource across competing uses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind at run time so each subcommand's own flags win for shared names.
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("binding flags: %w", err)
			}
			return setupLogging(v.GetString("log"))
		},
	}
	rootCmd.PersistentFlags().String("log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(
		newSolveCmd(v),
		newEnumerateCmd(v),
		newCurveCmd(v),
	)
	return rootCmd
}

func setupLogging(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	return nil
}

// rootCmd is the base command for the CLI
var rootCmd = NewRootCmd()

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
