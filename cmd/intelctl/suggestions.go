package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/suggestion"
)

func newSuggestionsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggestions",
		Aliases: []string{"suggestion"},
		Short:   "Review staged suggestions",
	}
	cmd.AddCommand(
		newSuggestionsListCommand(e),
		newSuggestionsReviewCommand(e, "approve", "approved", func(svc suggestion.Service) bulkReview { return svc.BulkApprove }),
		newSuggestionsReviewCommand(e, "reject", "rejected", func(svc suggestion.Service) bulkReview { return svc.BulkReject }),
	)
	return cmd
}

func newSuggestionsListCommand(e *env) *cobra.Command {
	var (
		status string
		kind   string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List suggestions, pending by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repositories.SuggestionFilter{
				Status: entities.SuggestionStatus(status),
				Type:   entities.SuggestionType(kind),
				Limit:  limit,
			}
			if filter.Type != "" && !filter.Type.IsValid() {
				return fmt.Errorf("unknown suggestion type %q", kind)
			}

			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			items, total, err := a.Suggestions.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			e.printf("%d %s suggestion(s)", total, status)
			if int64(len(items)) < total {
				e.printf(", showing %d", len(items))
			}
			e.printf("\n\n")
			if len(items) == 0 {
				return nil
			}

			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tCONFIDENCE\tTARGET\tREASON")
			for _, s := range items {
				ownerType, ownerID := s.Target()
				fmt.Fprintf(w, "%s\t%s\t%d\t%s %s\t%s\n", s.ID, s.Type, s.Confidence, ownerType, ownerID, s.Reason)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", string(entities.SuggestionPending), "pending, approved or rejected")
	cmd.Flags().StringVar(&kind, "type", "", "companyLink, enrichment or companyEnrichment")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to print")
	return cmd
}

type bulkReview func(ctx context.Context, ids []uuid.UUID, reviewer string) suggestion.BulkResult

func newSuggestionsReviewCommand(e *env, verb, past string, pick func(suggestion.Service) bulkReview) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>...",
		Short: "Bulk " + verb + " suggestions; each id is reviewed on its own",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid suggestion id %q", arg)
				}
				ids = append(ids, id)
			}

			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res := pick(a.Suggestions)(cmd.Context(), ids, e.actor)
			e.printf("%s %d of %d suggestion(s)\n", past, res.Count(), len(ids))

			failed := make([]string, 0, len(res.Failed))
			for id, err := range res.Failed {
				failed = append(failed, fmt.Sprintf("  %s: %v", id, err))
			}
			sort.Strings(failed)
			for _, line := range failed {
				e.printf("%s\n", line)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d suggestion(s) could not be %s", len(failed), past)
			}
			return nil
		},
	}
}
