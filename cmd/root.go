package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Manu343726/dwarfkit/cmd/dwarfbrowse"
	"github.com/Manu343726/dwarfkit/cmd/dwarfdump"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dwarfkit",
	Short: "A DWARF/ELF debug-information reader toolkit",
	Long: `dwarfkit reads DWARF debug information out of ELF binaries: compilation
units, the DIE tree, line tables and address ranges, without needing a copy
of the process it came from.

This CLI is the entry point for the dwarfkit ecosystem: dwarfdump renders
debug sections to text, dwarfbrowse is an interactive DIE-tree browser.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dwarfkit.yaml)")
	RootCmd.AddCommand(dwarfdump.Cmd, dwarfbrowse.Cmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dwarfkit" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dwarfkit")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
