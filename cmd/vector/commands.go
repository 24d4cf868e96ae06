package vector

import (
	"fmt"
	"strconv"

	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/cmd/util"
	"github.com/spf13/cobra"
)

var (
	insertCmd = &cobra.Command{
		Use:   "insert [id] [vector]",
		Short: "Inserts a vector under a numeric id (vector as comma-separated numbers, e.g. 1,2.5,-3)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			vec, err := common.ParseVector(args[1])
			if err != nil {
				return err
			}
			resp, err := conn.InsertVector(id, vec, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("insert rejected: %s", resp.Message)
			}
			fmt.Println("insert successfully")
			return nil
		},
	}
	searchCmd = &cobra.Command{
		Use:   "search [vector] [k]",
		Short: "Finds the k nearest neighbors of a query vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := common.ParseVector(args[0])
			if err != nil {
				return err
			}
			k, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("k must be a number: %w", err)
			}
			resp, err := conn.SearchTopK(vec, k, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("search rejected: %s", resp.Message)
			}
			printSearchResult(resp)
			return nil
		},
	}
	rangeCmd = &cobra.Command{
		Use:   "range [vector] [radius]",
		Short: "Finds all vectors within a radius of a query vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := common.ParseVector(args[0])
			if err != nil {
				return err
			}
			radius, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("radius must be a number: %w", err)
			}
			resp, err := conn.RangeSearch(vec, radius, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("range search rejected: %s", resp.Message)
			}
			printSearchResult(resp)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads a vector by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			resp, err := conn.GetVector(id, util.GetSpace())
			if err != nil {
				return err
			}
			if !resp.OK() {
				fmt.Printf("id=%d, found=false (%s)\n", id, resp.Message)
				return nil
			}
			fmt.Printf("id=%d, vector=%s\n", id, resp.Value)
			return nil
		},
	}
)

// printSearchResult prints whichever field of the reply carries the matches
func printSearchResult(resp *common.Response) {
	switch {
	case resp.Value != "":
		fmt.Println(resp.Value)
	case resp.Message != "":
		fmt.Println(resp.Message)
	default:
		fmt.Println("no matches")
	}
}
