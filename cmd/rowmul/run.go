// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/katalvlaran/rowmul/comm"
	"github.com/katalvlaran/rowmul/comm/tcp"
	"github.com/katalvlaran/rowmul/config"
	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/orchestrator"
	"github.com/katalvlaran/rowmul/workerpool"
)

func newRunCmd() *cobra.Command {
	var path string
	flags := config.Default()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Multiply two matrices and print A, B and C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			applyFlags(cmd.Flags(), &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&path, "config", "", "YAML config file; flags override its values")
	f.StringVar(&flags.Backend, "backend", flags.Backend, "shared or message-passing")
	f.StringVar(&flags.Transport, "transport", flags.Transport, "message-passing transport: local or tcp")
	f.IntVar(&flags.Size, "size", flags.Size, "Matrix dimension N")
	f.IntVar(&flags.Workers, "workers", flags.Workers, "Tasks (shared) or ranks (message-passing)")
	f.IntVar(&flags.Pool, "pool", flags.Pool, "Shared-memory goroutines (0 = GOMAXPROCS)")
	f.StringVar(&flags.Init, "init", flags.Init, "sequential or constant")
	f.Int32Var(&flags.AValue, "a-value", flags.AValue, "Fill value of A for --init constant")
	f.Int32Var(&flags.BValue, "b-value", flags.BValue, "Fill value of B for --init constant")
	f.BoolVar(&flags.ReplicateA, "replicate-a", flags.ReplicateA, "Every rank initializes A instead of receiving it")
	f.IntVar(&flags.Rank, "rank", flags.Rank, "This process's rank in a tcp world")
	f.StringVar(&flags.Addr, "addr", flags.Addr, "Address of rank 0 in a tcp world")
	f.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Abort the run after this long (0 = never)")

	return cmd
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, flags config.Config) {
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Backend = flags.Backend
		case "transport":
			cfg.Transport = flags.Transport
		case "size":
			cfg.Size = flags.Size
		case "workers":
			cfg.Workers = flags.Workers
		case "pool":
			cfg.Pool = flags.Pool
		case "init":
			cfg.Init = flags.Init
		case "a-value":
			cfg.AValue = flags.AValue
		case "b-value":
			cfg.BValue = flags.BValue
		case "replicate-a":
			cfg.ReplicateA = flags.ReplicateA
		case "rank":
			cfg.Rank = flags.Rank
		case "addr":
			cfg.Addr = flags.Addr
		case "timeout":
			cfg.Timeout = flags.Timeout
		}
	})
}

func initializer(cfg config.Config) orchestrator.Initializer {
	if cfg.Init == config.InitConstant {
		return orchestrator.Constant{Rows: cfg.Size, Cols: cfg.Size, A: cfg.AValue, B: cfg.BValue}
	}
	return orchestrator.Sequential{N: cfg.Size}
}

func run(ctx context.Context, cfg config.Config, w io.Writer) error {
	klog.V(1).InfoS("run config", "backend", cfg.Backend, "transport", cfg.Transport,
		"size", cfg.Size, "workers", cfg.Workers, "init", cfg.Init)
	init, sink := initializer(cfg), orchestrator.TextSink{W: w}

	backend, err := fabric.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}
	if backend == fabric.BackendSharedMemory {
		pool := workerpool.New(cfg.Pool)
		defer pool.Close()
		f, err := fabric.NewSharedMemory(fabric.WithWorkers(cfg.Workers), fabric.WithPool(pool))
		if err != nil {
			return err
		}
		return orchestrator.Run(ctx, f, init, sink)
	}

	var opts []fabric.Option
	if cfg.ReplicateA {
		opts = append(opts, fabric.WithReplicatedA())
	}
	rank := func(ctx context.Context, c comm.Communicator) error {
		f, err := fabric.NewMessagePassing(c, opts...)
		if err != nil {
			return err
		}
		return orchestrator.Run(ctx, f, init, sink)
	}

	switch cfg.Transport {
	case config.TransportLocal:
		return comm.RunLocal(ctx, cfg.Workers, rank)
	case config.TransportTCP:
		c, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer c.Close()
		return rank(ctx, c)
	default:
		return fmt.Errorf("%w: transport %q", config.ErrInvalidConfig, cfg.Transport)
	}
}

// connect joins the tcp world as cfg.Rank: rank 0 hosts it, others dial.
func connect(ctx context.Context, cfg config.Config) (comm.Communicator, error) {
	if cfg.Rank != 0 {
		return tcp.Dial(ctx, cfg.Addr, cfg.Rank, cfg.Workers)
	}
	hub, err := tcp.Listen(cfg.Addr, cfg.Workers)
	if err != nil {
		return nil, err
	}
	defer hub.Close()
	klog.InfoS("waiting for ranks", "addr", hub.Addr(), "size", cfg.Workers)

	return hub.Accept(ctx)
}
