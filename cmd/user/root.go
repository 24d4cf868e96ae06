package user

import (
	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	conn *client.Connection

	// UserCommands represents the user administration command group
	UserCommands = &cobra.Command{
		Use:               "user",
		Short:             "Administer user accounts",
		PersistentPreRunE: setupUserClient,
		PersistentPostRun: teardownUserClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the user command
	util.SetupClientFlags(UserCommands)

	// Add subcommands
	UserCommands.AddCommand(createCmd)
	UserCommands.AddCommand(passwdCmd)
	UserCommands.AddCommand(roleCmd)
	UserCommands.AddCommand(permsCmd)
	UserCommands.AddCommand(delCmd)
	UserCommands.AddCommand(getCmd)
}

// setupUserClient dials and authenticates the server connection
func setupUserClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	common.InitLoggers(viper.GetString("log-level"))

	var err error
	conn, err = client.Dial(util.GetClientConfig())
	return err
}

// teardownUserClient closes the server connection
func teardownUserClient(_ *cobra.Command, _ []string) {
	if conn != nil {
		conn.Close()
	}
}
