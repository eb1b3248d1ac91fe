package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	api := &client{}

	rootCmd := &cobra.Command{
		Use:           "bookkeeper-cli",
		Short:         "Bookkeeper CLI tool",
		Long:          `A command line interface for interacting with the Bookkeeper ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api.baseURL = baseURL
			api.http = &http.Client{Timeout: timeout}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bookkeeper API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newSubjectsCmd(api),
		newEntriesCmd(api),
		newStatementCmd(api),
		newBalancesCmd(api),
		newReconcileCmd(api),
		newExportCmd(api),
	)

	return rootCmd
}

func newSubjectsCmd(api *client) *cobra.Command {
	subjectsCmd := &cobra.Command{
		Use:   "subjects",
		Short: "Subject operations",
	}

	var req dto.RegisterSubjectRequest
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RegisterSubjectResponse
			if err := api.call(cmd.Context(), http.MethodPost, "/api/v1/subjects", nil, req, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %s (%s)\n", resp.Subject.Code, resp.Subject.Name, resp.Subject.ID)
			if resp.OpeningEntry != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Opening charge: %s\n", resp.OpeningEntry.Debit)
			}
			return nil
		},
	}
	registerCmd.Flags().StringVar(&req.Name, "name", "", "Subject name")
	registerCmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	registerCmd.Flags().StringVar(&req.Category, "category", "", "buyer, seller or both")
	registerCmd.Flags().StringVar(&req.OpeningCharge, "opening-charge", "", "Opening charge amount")
	registerCmd.Flags().StringVar(&req.OpeningDate, "opening-date", "", "Opening charge date (YYYY-MM-DD)")
	registerCmd.Flags().StringVar(&req.OpeningDescription, "opening-description", "", "Opening charge description")
	_ = registerCmd.MarkFlagRequired("name")

	var (
		query  string
		limit  int
		offset int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List or search subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if query != "" {
				q.Set("q", query)
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}
			if offset > 0 {
				q.Set("offset", fmt.Sprint(offset))
			}

			var resp dto.ListSubjectsResponse
			if err := api.call(cmd.Context(), http.MethodGet, "/api/v1/subjects", q, nil, &resp); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tPHONE\tCATEGORY\tBALANCE")
			for _, s := range resp.Subjects {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Code, truncate(s.Name, 32), s.Phone, s.Category, s.Balance)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Search by name, phone or code")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum subjects to list")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Subjects to skip")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s dto.SubjectResponse
			if err := api.call(cmd.Context(), http.MethodGet, "/api/v1/subjects/"+url.PathEscape(args[0]), nil, nil, &s); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:       %s\n", s.ID)
			fmt.Fprintf(w, "Code:     %s\n", s.Code)
			fmt.Fprintf(w, "Name:     %s\n", s.Name)
			fmt.Fprintf(w, "Phone:    %s\n", s.Phone)
			fmt.Fprintf(w, "Category: %s\n", s.Category)
			fmt.Fprintf(w, "Balance:  %s\n", s.Balance)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subject without entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.call(cmd.Context(), http.MethodDelete, "/api/v1/subjects/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted subject %s\n", args[0])
			return nil
		},
	}

	subjectsCmd.AddCommand(registerCmd, listCmd, getCmd, deleteCmd)
	return subjectsCmd
}

func newEntriesCmd(api *client) *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Entry operations",
	}

	var req dto.AppendEntryRequest
	appendCmd := &cobra.Command{
		Use:   "append",
		Short: "Append an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var e dto.EntryResponse
			if err := api.call(cmd.Context(), http.MethodPost, "/api/v1/entries", nil, req, &e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appended entry %s (%s, debit %s, credit %s)\n", e.ID, e.Kind, e.Debit, e.Credit)
			return nil
		},
	}
	appendCmd.Flags().StringVar(&req.SubjectID, "subject", "", "Subject ID")
	appendCmd.Flags().StringVar(&req.Date, "date", "", "Entry date (YYYY-MM-DD)")
	appendCmd.Flags().StringVar(&req.Kind, "kind", "", "Entry kind")
	appendCmd.Flags().StringVar(&req.Description, "description", "", "Description")
	appendCmd.Flags().StringVar(&req.Debit, "debit", "", "Debit amount")
	appendCmd.Flags().StringVar(&req.Credit, "credit", "", "Credit amount")
	_ = appendCmd.MarkFlagRequired("date")
	_ = appendCmd.MarkFlagRequired("kind")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.call(cmd.Context(), http.MethodDelete, "/api/v1/entries/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s\n", args[0])
			return nil
		},
	}

	var subjectID, from, to string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/entries"
			q := url.Values{}
			if subjectID != "" {
				path = "/api/v1/subjects/" + url.PathEscape(subjectID) + "/entries"
			}
			if from != "" || to != "" {
				q.Set("from", from)
				q.Set("to", to)
			}

			var entries []*dto.EntryResponse
			if err := api.call(cmd.Context(), http.MethodGet, path, q, nil, &entries); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tKIND\tDESCRIPTION\tDEBIT\tCREDIT\tID")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.Date, e.Kind, truncate(e.Description, 32), e.Debit, e.Credit, e.ID)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&subjectID, "subject", "", "Only entries of this subject")
	listCmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")

	entriesCmd.AddCommand(appendCmd, removeCmd, listCmd)
	return entriesCmd
}

func newStatementCmd(api *client) *cobra.Command {
	return &cobra.Command{
		Use:   "statement <subject-id>",
		Short: "Show a subject statement with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stmt dto.StatementResponse
			path := "/api/v1/subjects/" + url.PathEscape(args[0]) + "/statement"
			if err := api.call(cmd.Context(), http.MethodGet, path, nil, nil, &stmt); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n\n", stmt.Subject.Code, stmt.Subject.Name)

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tKIND\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE")
			for _, l := range stmt.Lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", l.Date, l.Kind, truncate(l.Description, 32), l.Debit, l.Credit, l.RunningBalance)
			}
			fmt.Fprintf(tw, "TOTAL\t\t\t%s\t%s\t%s\n", stmt.Totals.TotalDebit, stmt.Totals.TotalCredit, stmt.Totals.Balance)
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(w, "\nPosition: %s\n", stmt.Totals.Position)
			return nil
		},
	}
}

func newBalancesCmd(api *client) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of every subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []dto.SubjectBalanceResponse
			if err := api.call(cmd.Context(), http.MethodGet, "/api/v1/reports/balances", nil, nil, &rows); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT\tBALANCE\tPOSITION")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Subject.Code, truncate(r.Subject.Name, 32), r.TotalDebit, r.TotalCredit, r.Balance, r.Position)
			}
			return tw.Flush()
		},
	}
}

func newReconcileCmd(api *client) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [subject-id]",
		Short: "Check stored balances against the entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				var result dto.ReconciliationResponse
				path := "/api/v1/subjects/" + url.PathEscape(args[0]) + "/reconciliation"
				if err := api.call(cmd.Context(), http.MethodGet, path, nil, nil, &result); err != nil {
					return err
				}
				printReconciliation(w, &result)
				if !result.IsReconciled {
					return fmt.Errorf("subject %s is not reconciled", result.Code)
				}
				return nil
			}

			var report dto.ReconciliationReportResponse
			if err := api.call(cmd.Context(), http.MethodGet, "/api/v1/reports/reconciliation", nil, nil, &report); err != nil {
				return err
			}

			fmt.Fprintf(w, "Subjects:   %d\n", report.TotalSubjects)
			fmt.Fprintf(w, "Reconciled: %d\n", report.ReconciledSubjects)
			fmt.Fprintf(w, "Orphaned entries: %d\n", report.OrphanedEntries)
			for _, d := range report.Discrepancies {
				printReconciliation(w, d)
			}

			if len(report.Discrepancies) > 0 || report.OrphanedEntries > 0 {
				return fmt.Errorf("reconciliation FAILED")
			}
			fmt.Fprintln(w, "Reconciliation PASSED")
			return nil
		},
	}
}

func printReconciliation(w io.Writer, r *dto.ReconciliationResponse) {
	fmt.Fprintf(w, "%s: recorded %s, calculated %s, difference %s\n",
		r.Code, r.RecordedBalance, r.CalculatedBalance, r.Difference)
}

func newExportCmd(api *client) *cobra.Command {
	var format, output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports as CSV or XLSX",
	}
	exportCmd.PersistentFlags().StringVar(&format, "format", "csv", "csv or xlsx")
	exportCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	run := func(cmd *cobra.Command, path string) error {
		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return api.download(cmd.Context(), path, url.Values{"format": {format}}, w)
	}

	statementCmd := &cobra.Command{
		Use:   "statement <subject-id>",
		Short: "Export a subject statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "/api/v1/subjects/"+url.PathEscape(args[0])+"/statement/export")
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Export the balances report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "/api/v1/reports/balances/export")
		},
	}

	exportCmd.AddCommand(statementCmd, balancesCmd)
	return exportCmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
