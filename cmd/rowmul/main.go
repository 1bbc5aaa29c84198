// SPDX-License-Identifier: MIT

// Command rowmul multiplies two N×N int32 matrices with a row-partitioned
// parallel engine and prints the operands and the product.
//
// Usage:
//
//	rowmul run --backend shared --size 4 --workers 4
//	rowmul run --backend message-passing --transport local --workers 3
//	rowmul run --backend message-passing --transport tcp --workers 3 --rank 0 --addr :7447
//	rowmul partition --size 10 --workers 4
//
// In a tcp world every rank is its own process: rank 0 listens on --addr and
// ranks 1..P-1 dial it. klog flags (-v, --logtostderr, ...) are accepted by
// every subcommand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rowmul",
		Short:         "Row-partitioned parallel integer matrix multiplication",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(newRunCmd(), newPartitionCmd())
	return root
}
