package kv

import (
	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	conn *client.Connection

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations",
		PersistentPreRunE: setupKVClient,
		PersistentPostRun: teardownKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the KV command
	util.SetupClientFlags(KeyValueCommands)
	util.SetupSpaceFlag(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(putCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient dials and authenticates the server connection
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	common.InitLoggers(viper.GetString("log-level"))

	var err error
	conn, err = client.Dial(util.GetClientConfig())
	return err
}

// teardownKVClient closes the server connection
func teardownKVClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		conn.Close()
	}
}
