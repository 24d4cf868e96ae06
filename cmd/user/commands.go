package user

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [username] [password]",
		Short: "Creates a new user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			permsFlag, _ := cmd.Flags().GetStringSlice("perm")

			perms, err := parsePermissions(permsFlag)
			if err != nil {
				return err
			}

			resp, err := conn.CreateUser(common.User{
				Username:    args[0],
				Password:    args[1],
				Role:        role,
				Permissions: perms,
			})
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("create rejected: %s", resp.Message)
			}
			fmt.Printf("user %s created\n", args[0])
			return nil
		},
	}
	passwdCmd = &cobra.Command{
		Use:   "passwd [username] [password]",
		Short: "Sets a new password for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.UpdateUserPassword(args[0], args[1])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("password update rejected: %s", resp.Message)
			}
			fmt.Println("password updated")
			return nil
		},
	}
	roleCmd = &cobra.Command{
		Use:   "role [username] [role]",
		Short: "Sets a new role for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.UpdateUserRole(args[0], args[1])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("role update rejected: %s", resp.Message)
			}
			fmt.Println("role updated")
			return nil
		},
	}
	permsCmd = &cobra.Command{
		Use:   "perms [username]",
		Short: "Replaces the space permissions of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			permsFlag, _ := cmd.Flags().GetStringSlice("perm")
			perms, err := parsePermissions(permsFlag)
			if err != nil {
				return err
			}
			if len(perms) == 0 {
				return fmt.Errorf("pass at least one --perm space=level")
			}

			resp, err := conn.UpdateUserPermissions(args[0], perms)
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("permission update rejected: %s", resp.Message)
			}
			fmt.Println("permissions updated")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [username]",
		Short: "Deletes a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.DeleteUser(args[0])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("delete rejected: %s", resp.Message)
			}
			fmt.Printf("user %s deleted\n", args[0])
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [username]",
		Short: "Reads a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.GetUser(args[0])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("get rejected: %s", resp.Message)
			}
			if resp.User == nil {
				fmt.Println(resp.Message)
				return nil
			}
			fmt.Printf("username: %s\n", resp.User.Username)
			fmt.Printf("role:     %s\n", resp.User.Role)
			if len(resp.User.Permissions) > 0 {
				spaces := make([]string, 0, len(resp.User.Permissions))
				for space := range resp.User.Permissions {
					spaces = append(spaces, space)
				}
				sort.Strings(spaces)
				fmt.Println("permissions:")
				for _, space := range spaces {
					fmt.Printf("  %s: %s\n", space, resp.User.Permissions[space])
				}
			}
			return nil
		},
	}
)

func init() {
	// Flags for user creation and permission updates
	createCmd.Flags().String("role", "", util.WrapString("role of the new user (defaults to user)"))
	createCmd.Flags().StringSlice("perm", nil, util.WrapString("space permission as space=level, repeatable"))
	permsCmd.Flags().StringSlice("perm", nil, util.WrapString("space permission as space=level, repeatable"))
}

// parsePermissions turns repeated space=level flags into a permission map
func parsePermissions(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	perms := make(map[string]string, len(flags))
	for _, flag := range flags {
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid permission %q, expected space=level", flag)
		}
		perms[parts[0]] = parts[1]
	}
	return perms, nil
}
