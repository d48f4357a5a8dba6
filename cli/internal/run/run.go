// Package run implements the commit flow: enumerate working-tree changes,
// bucket them by category, generate one commit message per bucket, resolve
// gaps interactively, and drive git add/commit plus the final push.
//
// Everything is strictly sequential; one category is finished before the
// next starts, so no two git commands touch the index at the same time.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/analyze"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/classify"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/erruser"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/openai"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/prompt"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/resolve"
)

// Git is the version-control capability the orchestrator needs. git.CLI
// implements it; tests substitute a recording fake.
type Git interface {
	Changes(root string) ([]string, error)
	Untracked(root string) ([]string, error)
	DiffForFiles(root string, files []string) (string, error)
	Add(root string, files []string) error
	Commit(root, message string) error
	Push(root, remote string) error
}

// Completer generates the raw model response for a system+user message
// pair. *openai.Client implements it.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts openai.Options) (string, error)
}

// Options holds everything Start needs. Git, Completer, and Resolver are
// required; Out defaults to os.Stdout.
type Options struct {
	RepoRoot     string
	Policy       classify.Policy
	Vocab        prompt.Vocabulary
	Temperature  float64
	MaxTokens    int
	MaxDiffBytes int
	Remote       string
	// AssumeYes skips the commit and push confirmations. Field resolution
	// still prompts; undetermined values cannot be invented.
	AssumeYes bool

	Git       Git
	Completer Completer
	Resolver  resolve.Resolver
	Out       io.Writer
}

var previewStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Start runs the whole flow once. Per-category failures (empty diff, model
// failure, unparsable output, declined confirmation, git error) are
// reported and skip only that category; Start returns an error only for
// failures before the category loop.
func Start(ctx context.Context, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	changed, err := opts.Git.Changes(opts.RepoRoot)
	if err != nil {
		return err
	}

	// The full policy stages untracked files up front so new files are
	// classified and committed with everything else.
	if opts.Policy == classify.PolicyFull {
		untracked, err := opts.Git.Untracked(opts.RepoRoot)
		if err != nil {
			return err
		}
		if len(untracked) > 0 {
			fmt.Fprintf(out, "Found new files:\n%s\n", strings.Join(untracked, "\n"))
			if err := opts.Git.Add(opts.RepoRoot, untracked); err != nil {
				return erruser.New("Could not stage new files.", err)
			}
			fmt.Fprintln(out, "Staged new files.")
			changed, err = opts.Git.Changes(opts.RepoRoot)
			if err != nil {
				return err
			}
		}
	}

	if len(changed) == 0 {
		fmt.Fprintln(out, "No changes to commit.")
		return nil
	}

	buckets := classify.Partition(changed)
	committed := false
	for _, cat := range classify.Order {
		files := buckets[cat]
		if len(files) == 0 {
			continue
		}
		if !opts.Policy.Committable(cat) {
			fmt.Fprintf(out, "Uncategorized files (%s) left uncommitted:\n%s\n", cat, strings.Join(files, "\n"))
			continue
		}
		ok, err := processCategory(ctx, opts, out, cat, files)
		if err != nil {
			fmt.Fprintf(out, "Error committing %s changes: %v\n", cat, err)
			continue
		}
		if ok {
			committed = true
		}
	}

	push := opts.AssumeYes && committed
	if !opts.AssumeYes {
		push, err = opts.Resolver.Confirm("All commits done. Push now?")
		if err != nil {
			return err
		}
	}
	if push {
		if err := opts.Git.Push(opts.RepoRoot, opts.Remote); err != nil {
			fmt.Fprintf(out, "Error during push: %v\n", err)
		} else {
			fmt.Fprintln(out, "Pushed changes.")
		}
	}
	return nil
}

// processCategory drives one bucket end to end. Returns (true, nil) when a
// commit was created, (false, nil) for the intentional no-ops (blank diff,
// generation failure, user decline), and an error only when a git command
// failed.
func processCategory(ctx context.Context, opts Options, out io.Writer, cat classify.Category, files []string) (bool, error) {
	diff, err := opts.Git.DiffForFiles(opts.RepoRoot, files)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(diff) == "" {
		fmt.Fprintf(out, "No diff for %s, skipping.\n", strings.ToUpper(string(cat)))
		return false, nil
	}

	fmt.Fprintf(out, "Analyzing %s changes (%d files)...\n", cat, len(files))
	user := prompt.User(opts.Vocab, string(cat), diff, opts.MaxDiffBytes)
	content, err := opts.Completer.Complete(ctx, prompt.System, user, openai.Options{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(out, "Analysis failed for %s, skipping: %v\n", cat, err)
		return false, nil
	}
	a, err := analyze.Extract(content)
	if err != nil {
		fmt.Fprintf(out, "Could not parse analysis for %s, skipping: %v\n", cat, err)
		return false, nil
	}

	cpu, machine, typ, title, details, err := resolveFields(opts, a)
	if err != nil {
		return false, err
	}

	msg := analyze.Message(cpu, machine, typ, title, details)
	fmt.Fprintf(out, "\nProposed commit message:\n%s\n", previewStyle.Render(msg))

	ok := opts.AssumeYes
	if !ok {
		ok, err = opts.Resolver.Confirm(fmt.Sprintf("Commit %s changes?", strings.ToUpper(string(cat))))
		if err != nil {
			return false, err
		}
	}
	if !ok {
		fmt.Fprintf(out, "Skipped %s changes.\n", cat)
		return false, nil
	}

	if err := opts.Git.Add(opts.RepoRoot, files); err != nil {
		return false, err
	}
	if err := opts.Git.Commit(opts.RepoRoot, msg); err != nil {
		return false, err
	}
	fmt.Fprintf(out, "Committed: %s\n", firstLine(msg))
	return true, nil
}

// resolveFields fills every undetermined analysis field through the
// resolver so the assembled message contains no placeholder values.
func resolveFields(opts Options, a *analyze.Analysis) (cpu, machine, typ, title string, details []string, err error) {
	cpu = strings.TrimSpace(a.CPU)
	if !analyze.Determined(cpu) {
		cpu, err = opts.Resolver.Select("Enter CPU type (or choose):", opts.Vocab.CPUs)
		if err != nil {
			return "", "", "", "", nil, err
		}
	}
	machine = strings.TrimSpace(a.Machine)
	if !analyze.Determined(machine) {
		machine, err = opts.Resolver.Select("Enter machine type (or choose):", opts.Vocab.Machines)
		if err != nil {
			return "", "", "", "", nil, err
		}
	}
	typ = strings.TrimSpace(a.Type)
	if !analyze.Determined(typ) {
		typ, err = opts.Resolver.Select("Enter change type (or choose):", opts.Vocab.Types)
		if err != nil {
			return "", "", "", "", nil, err
		}
	}
	title = strings.TrimSpace(a.Title)
	if title == "" {
		title, err = opts.Resolver.Input("Enter commit title")
		if err != nil {
			return "", "", "", "", nil, err
		}
	}
	for _, d := range a.Details {
		d = strings.TrimSpace(d)
		if d != "" {
			details = append(details, d)
		}
	}
	for len(details) == 0 {
		line, err := opts.Resolver.Input("Enter details for commit message (comma separated)")
		if err != nil {
			return "", "", "", "", nil, err
		}
		details = analyze.SplitDetails(line)
	}
	return cpu, machine, typ, title, details, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
