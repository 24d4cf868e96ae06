package space

import (
	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	conn *client.Connection

	// SpaceCommands represents the space management command group
	SpaceCommands = &cobra.Command{
		Use:               "space",
		Short:             "Manage spaces",
		PersistentPreRunE: setupSpaceClient,
		PersistentPostRun: teardownSpaceClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the space command
	util.SetupClientFlags(SpaceCommands)

	// Add subcommands
	SpaceCommands.AddCommand(createCmd)
	SpaceCommands.AddCommand(delCmd)
	SpaceCommands.AddCommand(listCmd)
}

// setupSpaceClient dials and authenticates the server connection
func setupSpaceClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	common.InitLoggers(viper.GetString("log-level"))

	var err error
	conn, err = client.Dial(util.GetClientConfig())
	return err
}

// teardownSpaceClient closes the server connection
func teardownSpaceClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		conn.Close()
	}
}
