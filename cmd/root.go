package cmd

import (
	"fmt"
	"os"

	"github.com/shibudb-org/shibudb-clients/cmd/kv"
	"github.com/shibudb-org/shibudb-clients/cmd/space"
	"github.com/shibudb-org/shibudb-clients/cmd/user"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/shibudb-org/shibudb-clients/cmd/vector"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "shibudb-cli",
		Short: "command-line client for ShibuDB",
		Long: fmt.Sprintf(`shibudb-cli (v%s)

A command-line client for the ShibuDB database server. It speaks the
newline-delimited JSON wire protocol and covers space management,
key-value and vector operations, and user administration.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of shibudb-cli",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shibudb-cli v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(space.SpaceCommands)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(vector.VectorCommands)
	RootCmd.AddCommand(user.UserCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warning", util.WrapString("log level (debug, info, warning, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
