// Command riscommit categorizes working-tree changes in a BSP kernel tree
// and creates one commit per category with an AI-generated message.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/classify"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/config"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/erruser"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/git"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/openai"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/resolve"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/run"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/version"
)

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI, exported so tests can drive it.
func Run() int {
	return runCLI(os.Args[1:], os.Stdin, os.Stdout)
}

func runCLI(args []string, stdin io.Reader, stdout io.Writer) int {
	rootCmd := &cobra.Command{
		Use:     "riscommit [repo-path]",
		Short:   "Categorize working-tree changes and commit each category with an AI-generated message",
		Version: version.String(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			return runCommit(cmd, posArgs, stdin, stdout)
		},
	}
	rootCmd.Flags().String("policy", "", "Classification policy: full (commit patch/other too) or minimal")
	rootCmd.Flags().Bool("strict", false, "Reject free-form input during manual field resolution")
	rootCmd.Flags().BoolP("yes", "y", false, "Skip commit and push confirmations")
	rootCmd.Flags().String("remote", "", "Push remote (default: git's configured upstream)")
	rootCmd.Flags().Duration("timeout", 0, "Completion request timeout (0 = use config)")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if u := errors.Unwrap(err); u != nil {
			fmt.Fprintf(os.Stderr, "Details: %v\n", u)
		}
		return 1
	}
	return 0
}

func runCommit(cmd *cobra.Command, args []string, stdin io.Reader, stdout io.Writer) error {
	// A .env next to the invocation is a convenience for the required
	// OPENAI_* variables; absence is fine.
	_ = godotenv.Load()

	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.Load(config.LoadOptions{
		RepoPath:  path,
		Overrides: overridesFromFlags(cmd),
	})
	if err != nil {
		return err
	}

	repoRoot, err := git.RepoRoot(path)
	if err != nil {
		return err
	}

	policy, err := classify.ParsePolicy(cfg.Policy)
	if err != nil {
		return erruser.New("Invalid policy; use full or minimal.", err)
	}
	assumeYes, _ := cmd.Flags().GetBool("yes")

	opts := run.Options{
		RepoRoot:     repoRoot,
		Policy:       policy,
		Vocab:        cfg.Vocabulary,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		MaxDiffBytes: cfg.MaxDiffBytes,
		Remote:       cfg.Remote,
		AssumeYes:    assumeYes,
		Git:          git.CLI{},
		Completer:    openai.NewClient(cfg.Endpoint, cfg.APIKey, &http.Client{Timeout: cfg.Timeout}),
		Resolver:     resolve.NewConsole(stdin, stdout, cfg.Strict),
		Out:          stdout,
	}
	return run.Start(cmd.Context(), opts)
}

// overridesFromFlags returns config overrides for flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	changed := false
	if f := cmd.Flags().Lookup("policy"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("policy")
		o.Policy = &v
		changed = true
	}
	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("strict")
		o.Strict = &v
		changed = true
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetDuration("timeout")
		if v > 0 {
			o.Timeout = &v
			changed = true
		}
	}
	if f := cmd.Flags().Lookup("remote"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("remote")
		o.Remote = &v
		changed = true
	}
	if !changed {
		return nil
	}
	return o
}
