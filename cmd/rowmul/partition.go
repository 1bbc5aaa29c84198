// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rowmul/partition"
)

func newPartitionCmd() *cobra.Command {
	var size, workers int
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Print the row range every worker computes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := partition.Table(size, workers)
			if err != nil {
				return err
			}
			if err := partition.Verify(size, table); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for rank, r := range table {
				fmt.Fprintf(out, "worker %d of %d: rows %v (%d)\n", rank, workers, r, r.Len())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 4, "Matrix dimension N")
	cmd.Flags().IntVar(&workers, "workers", 4, "Worker count P")

	return cmd
}
