package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "issue-materializer",
		Short: "A CLI tool to materialize a fixed issue catalog into markdown files",
		Long: `issue-materializer renders a declarative catalog of GitHub issue
records into markdown documents, one file per issue, skipping any file
that already exists. Three of the issue bodies are assembled at run time
from external text fragments; the rest ship inside the binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			// Default action when no subcommand is specified
			cmd.Help()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.issue-materializer.yaml)")
	rootCmd.PersistentFlags().StringP("output-dir", "o", ".", "directory to write issue files into")

	// Bind flags to viper
	viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".issue-materializer" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".issue-materializer")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("ISSUE_MATERIALIZER")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
