package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-intelligence/internal/usecase/merge"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/resolution"
)

func newDuplicatesCommand(e *env) *cobra.Command {
	var (
		workers int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "List likely duplicate contacts",
		Long: `Scan every contact and its aliases for likely duplicates.
Pairs are printed strongest first; merge them with "intelctl merge contacts".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			corpus, err := a.Corpus(cmd.Context())
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.Config.Ingest.ScanWorkers
			}
			pairs, err := resolution.ScanDuplicates(cmd.Context(), corpus, workers)
			if err != nil {
				return err
			}
			if limit > 0 && len(pairs) > limit {
				pairs = pairs[:limit]
			}

			e.printf("Scanned %d contacts, %d likely duplicate pair(s)\n\n", len(corpus), len(pairs))
			if len(pairs) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CONFIDENCE\tTIER\tFIRST\tSECOND")
			for _, p := range pairs {
				fmt.Fprintf(w, "%d\t%s\t%s (%s)\t%s (%s)\n", p.Confidence, p.Tier, p.FirstName, p.FirstID, p.SecondName, p.SecondID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel comparison workers (default DUPLICATE_SCAN_WORKERS)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most this many pairs")
	return cmd
}

// mergeFunc matches the method expressions of merge.Engine
type mergeFunc func(m *merge.Engine, ctx context.Context, keepID, loseID uuid.UUID, actor string) (*merge.Result, error)

func newMergeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge duplicate contacts or companies",
	}
	cmd.AddCommand(
		newMergeSubcommand(e, "contacts", "contact", (*merge.Engine).MergeContacts),
		newMergeSubcommand(e, "companies", "company", (*merge.Engine).MergeCompanies),
	)
	return cmd
}

func newMergeSubcommand(e *env, use, noun string, fn mergeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <keep-id> <lose-id>",
		Short: "Merge the second " + noun + " into the first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, lose, err := parseMergeIDs(args)
			if err != nil {
				return err
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := fn(a.Merger, cmd.Context(), keep, lose, e.actor)
			if err != nil {
				return err
			}
			printMergeResult(e, res)
			return nil
		},
	}
}

func parseMergeIDs(args []string) (uuid.UUID, uuid.UUID, error) {
	keep, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid keep id %q", args[0])
	}
	lose, err := uuid.Parse(args[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid lose id %q", args[1])
	}
	return keep, lose, nil
}

func printMergeResult(e *env, res *merge.Result) {
	e.printf("Merged %s into %s\n", res.LoseID, res.KeepID)
	if len(res.FilledFields) > 0 {
		e.printf("  filled:        %s\n", strings.Join(res.FilledFields, ", "))
	}
	e.printf("  alias created: %t\n", res.AliasCreated)
	e.printf("  links moved:   %d meeting(s), %d action item(s), %d suggestion(s)\n",
		res.LinksMoved, res.ActionItemsMoved, res.SuggestionsMoved)
	if res.ContactsRepointed > 0 {
		e.printf("  contacts:      %d repointed\n", res.ContactsRepointed)
	}
	for _, w := range res.Warnings {
		e.printf("  warning:       %s\n", w)
	}
}
