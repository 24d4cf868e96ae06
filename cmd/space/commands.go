package space

import (
	"fmt"

	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [name]",
		Short: "Creates a new space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _ := cmd.Flags().GetString("engine")
			dimension, _ := cmd.Flags().GetInt("dimension")
			indexType, _ := cmd.Flags().GetString("index")
			metric, _ := cmd.Flags().GetString("metric")

			if engine == "vector" && dimension <= 0 {
				return fmt.Errorf("vector spaces need a positive --dimension")
			}

			resp, err := conn.CreateSpace(common.SpaceInfo{
				Name:       args[0],
				EngineType: engine,
				Dimension:  dimension,
				IndexType:  indexType,
				Metric:     metric,
			})
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("create rejected: %s", resp.Message)
			}
			fmt.Printf("space %s created\n", args[0])
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [name]",
		Short: "Deletes a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.DeleteSpace(args[0])
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("delete rejected: %s", resp.Message)
			}
			fmt.Printf("space %s deleted\n", args[0])
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := conn.ListSpaces()
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("list rejected: %s", resp.Message)
			}
			if len(resp.Spaces) == 0 {
				fmt.Println("no spaces")
				return nil
			}
			for _, name := range resp.Spaces {
				fmt.Println(name)
			}
			return nil
		},
	}
)

func init() {
	// Flags for space creation
	createCmd.Flags().String("engine", "key-value", util.WrapString("engine type of the space (key-value, vector)"))
	createCmd.Flags().Int("dimension", 0, util.WrapString("vector dimension (required for vector spaces)"))
	createCmd.Flags().String("index", "", util.WrapString("index type for vector spaces (e.g. Flat, HNSW)"))
	createCmd.Flags().String("metric", "", util.WrapString("distance metric for vector spaces (e.g. L2, IP)"))
}
