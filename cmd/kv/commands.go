package kv

import (
	"fmt"

	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
)

var (
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			resp, err := conn.Put(key, value, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("put rejected: %s", resp.Message)
			}
			fmt.Println("put successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			resp, err := conn.Get(key, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				fmt.Printf("key=%s, found=false (%s)\n", key, resp.Message)
				return nil
			}
			fmt.Printf("key=%s, value=%s\n", key, resp.Value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key-value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			resp, err := conn.Delete(key, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("delete rejected: %s", resp.Message)
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
)
