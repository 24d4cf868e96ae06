package vector

import (
	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	conn *client.Connection

	// VectorCommands represents the vector command group
	VectorCommands = &cobra.Command{
		Use:               "vector",
		Short:             "Perform vector operations",
		PersistentPreRunE: setupVectorClient,
		PersistentPostRun: teardownVectorClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the vector command
	util.SetupClientFlags(VectorCommands)
	util.SetupSpaceFlag(VectorCommands)

	// Add subcommands
	VectorCommands.AddCommand(insertCmd)
	VectorCommands.AddCommand(searchCmd)
	VectorCommands.AddCommand(rangeCmd)
	VectorCommands.AddCommand(getCmd)
}

// setupVectorClient dials and authenticates the server connection
func setupVectorClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	common.InitLoggers(viper.GetString("log-level"))

	var err error
	conn, err = client.Dial(util.GetClientConfig())
	return err
}

// teardownVectorClient closes the server connection
func teardownVectorClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		conn.Close()
	}
}
