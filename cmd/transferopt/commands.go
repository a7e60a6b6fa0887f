package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/transferopt/generator"
	"github.com/katalvlaran/transferopt/optimizer"
	"github.com/katalvlaran/transferopt/store"
)

type cli struct {
	cfg  Config
	log  *zap.Logger
	seed int64
	in   string
	out  string
}

func newRootCmd(cfg Config) *cobra.Command {
	c := &cli{cfg: cfg, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "transferopt",
		Short: "Elective transfer optimizer",
		Long: "Decides which pending elective transfer requests to accept so that\n" +
			"group capacities hold, every student gets at most one transfer per\n" +
			"elective, and preferred, older requests win.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			log, err := newLogger(c.cfg.LogLevel)
			if err != nil {
				return err
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&c.cfg.DB, "db", cfg.DB, "sqlite database file")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	root.PersistentFlags().StringVarP(&c.out, "out", "o", "", "output file (default stdout)")

	root.AddCommand(c.solveCmd(), c.compareCmd(), c.generateCmd())

	return root
}

func (c *cli) solveCmd() *cobra.Command {
	var nodes int
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "run one algorithm and print the accepted request ids as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := optimizer.ParseAlgorithm(c.cfg.Algorithm)
			if err != nil {
				return err
			}
			groups, requests, err := loadInput(cmd.Context(), c.in, c.cfg.DB)
			if err != nil {
				return err
			}
			res, err := optimizer.Solve(groups, requests,
				optimizer.WithAlgorithm(algo),
				optimizer.WithTimeLimit(c.cfg.TimeLimit),
				optimizer.WithNodeLimit(nodes),
				optimizer.WithSeed(c.seed),
				optimizer.WithLogger(c.log),
			)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), c.out, res)
		},
	}
	cmd.Flags().StringVarP(&c.in, "in", "i", "", "snapshot JSON file (takes precedence over --db)")
	cmd.Flags().StringVarP(&c.cfg.Algorithm, "algo", "a", c.cfg.Algorithm, "ilp, greedy, annealing or genetic")
	cmd.Flags().DurationVarP(&c.cfg.TimeLimit, "time", "t", c.cfg.TimeLimit, "time limit (0 disables)")
	cmd.Flags().IntVar(&nodes, "nodes", 0, "node limit for the exact search (0 disables)")
	cmd.Flags().Int64Var(&c.seed, "seed", 0, "heuristic random seed (0 = fixed default)")

	return cmd
}

func (c *cli) compareCmd() *cobra.Command {
	var algos []string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "run several algorithms on the same snapshot and print a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := make([]optimizer.Algorithm, 0, len(algos))
			for _, s := range algos {
				a, err := optimizer.ParseAlgorithm(s)
				if err != nil {
					return err
				}
				selected = append(selected, a)
			}
			groups, requests, err := loadInput(cmd.Context(), c.in, c.cfg.DB)
			if err != nil {
				return err
			}
			results, err := optimizer.Compare(groups, requests, selected,
				optimizer.WithTimeLimit(c.cfg.TimeLimit),
				optimizer.WithSeed(c.seed),
				optimizer.WithLogger(c.log),
			)
			if err != nil {
				return err
			}
			if c.out != "" {
				return writeJSON(cmd.OutOrStdout(), c.out, results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALGORITHM\tSTATUS\tOBJECTIVE\tACCEPTED\tELAPSED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%.4f\t%d\t%s\n",
					r.Algorithm, r.Status, r.Objective, len(r.AcceptedRequestIDs), r.Elapsed.Round(time.Microsecond))
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&c.in, "in", "i", "", "snapshot JSON file (takes precedence over --db)")
	cmd.Flags().StringSliceVar(&algos, "algos", []string{"ilp", "greedy", "annealing", "genetic"}, "algorithms to run")
	cmd.Flags().DurationVarP(&c.cfg.TimeLimit, "time", "t", c.cfg.TimeLimit, "time limit per algorithm (0 disables)")
	cmd.Flags().Int64Var(&c.seed, "seed", 0, "heuristic random seed (0 = fixed default)")

	return cmd
}

func (c *cli) generateCmd() *cobra.Command {
	gen := generator.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a synthetic catalog with ranked transfer requests",
		Long: "Writes the snapshot as JSON (to --out or stdout) or, with --db,\n" +
			"creates the schema in that sqlite file and imports the data.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := generator.Generate(gen)
			if err != nil {
				return err
			}
			c.log.Info("generated dataset",
				zap.Int("groups", len(ds.Groups)),
				zap.Int("requests", len(ds.Requests)),
				zap.Int64("seed", gen.Seed))

			if c.cfg.DB != "" {
				st, err := store.Open(c.cfg.DB)
				if err != nil {
					return err
				}
				defer st.Close()
				if err = st.Migrate(cmd.Context()); err != nil {
					return err
				}
				if err = st.Import(cmd.Context(), ds.Records()); err != nil {
					return err
				}
				if c.out == "" {
					return nil
				}
			}

			return writeJSON(cmd.OutOrStdout(), c.out, snapshotFile{Groups: ds.Groups, Requests: ds.Requests})
		},
	}
	cmd.Flags().IntVar(&gen.Students, "students", gen.Students, "number of students")
	cmd.Flags().IntVar(&gen.Electives, "electives", gen.Electives, "number of electives")
	cmd.Flags().IntVar(&gen.GroupsPerType, "groups", gen.GroupsPerType, "groups per group type and elective")
	cmd.Flags().IntVar(&gen.Capacity, "capacity", gen.Capacity, "seats per group")
	cmd.Flags().IntVar(&gen.MaxTargets, "targets", gen.MaxTargets, "maximum ranked targets per student")
	cmd.Flags().StringSliceVar(&gen.GroupTypes, "types", gen.GroupTypes, "group types")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "random seed")

	return cmd
}
