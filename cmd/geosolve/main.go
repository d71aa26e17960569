// Command geosolve solves a problem file offline and prints its proofs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Harshitk-cp/geosolve/internal/buildconfig"
	"github.com/Harshitk-cp/geosolve/internal/config"
	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/rules"
	"github.com/Harshitk-cp/geosolve/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geosolve",
		Short: "Forward-chaining prover for plane geometry",
		Long: `geosolve saturates a set of geometric premises under a fixed rule catalog
and prints every independent proof that a quadrilateral is cyclic, or the
contradictions hidden in the premises.

Problem files are YAML (or JSON) with a list of records:

  name: opposite angles
  records:
    - {type: QUADRILATERAL, points: [A, B, C, D]}
    - {type: VALUE, subtype: angle, points: [D, A, B], value: 110}
    - {type: VALUE, subtype: angle, points: ["?", C, "?"], value: 70}`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)

	solveCmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve a problem file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().Int("max-iterations", 0, "Round ceiling (default 15, or the file's max_iterations)")
	solveCmd.Flags().Bool("json", false, "Print the full solution as JSON")
	solveCmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(solveCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog in application order",
		Run: func(cmd *cobra.Command, args []string) {
			for i, r := range rules.Catalog() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-30s %s\n", i+1, r.Name(), r.Description())
			}
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildconfig.String())
		},
	})

	return rootCmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	maxIter, _ := cmd.Flags().GetInt("max-iterations")
	asJSON, _ := cmd.Flags().GetBool("json")
	level, _ := cmd.Flags().GetString("log-level")

	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return err
	}
	logger, err := config.NewLoggerAt(lvl)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	problem, err := decodeProblem(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if maxIter > 0 {
		problem.MaxIterations = maxIter
	}

	sol, err := service.NewSolverService(logger).Solve(cmd.Context(), problem)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	}
	printSolution(out, sol)
	return nil
}

// decodeProblem accepts a problem document or a bare list of records.
func decodeProblem(data []byte) (domain.Problem, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Problem{}, err
	}
	if len(doc.Content) == 0 {
		return domain.Problem{}, fmt.Errorf("empty problem file")
	}

	var p domain.Problem
	if doc.Content[0].Kind == yaml.SequenceNode {
		if err := doc.Content[0].Decode(&p.Records); err != nil {
			return domain.Problem{}, err
		}
		return p, nil
	}
	if err := doc.Content[0].Decode(&p); err != nil {
		return domain.Problem{}, err
	}
	return p, nil
}

func printSolution(w io.Writer, sol *domain.Solution) {
	if sol.Name != "" {
		fmt.Fprintf(w, "Problem: %s\n", sol.Name)
	}
	fmt.Fprintf(w, "Status: %s (%d rounds", sol.Status, sol.Rounds)
	if sol.HitCeiling {
		fmt.Fprint(w, ", stopped at the round ceiling")
	}
	fmt.Fprintln(w, ")")
	for _, f := range sol.Faults {
		fmt.Fprintf(w, "Rule %s failed in round %d: %s\n", f.Rule, f.Round, f.Error)
	}
	if len(sol.Conclusions) == 0 {
		fmt.Fprintln(w, "No conclusions.")
		return
	}
	for _, c := range sol.Conclusions {
		fmt.Fprintln(w)
		fmt.Fprint(w, c.Text)
	}
}
