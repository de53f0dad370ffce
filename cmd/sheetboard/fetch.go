package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	service "github.com/okian/sheetboard/internal/app"
	"github.com/okian/sheetboard/internal/domain/types"
)

// Output formats of the fetch command.
const (
	outputText = "text"
	outputJSON = "json"
)

var (
	flagCategory string
	flagOutput   string
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh once and print the leaderboard and scoreboards",
		RunE:  runFetch,
	}
	cmd.Flags().StringVar(&flagCategory, "category", "", "Only print the scoreboard of this category")
	cmd.Flags().StringVar(&flagOutput, "output", outputText, "Output format: text or json")
	return cmd
}

// fetchResult is the json output of the fetch command.
type fetchResult struct {
	Seq      uint64               `json:"seq"`
	Entries  int                  `json:"entries"`
	Dropped  int                  `json:"dropped"`
	Totals   []types.CollegeTotal `json:"totals"`
	Matrices []types.Matrix       `json:"matrices"`
	Posters  []string             `json:"posters"`
}

func runFetch(cmd *cobra.Command, _ []string) error {
	output := strings.ToLower(flagOutput)
	if output != outputText && output != outputJSON {
		return fmt.Errorf("invalid output: %s (must be 'text' or 'json')", flagOutput)
	}

	ctx := cmd.Context()
	cfg, err := setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	svc, err := service.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing: %w", err)
	}

	snap := svc.Snapshot()
	res := fetchResult{Seq: snap.Seq, Entries: len(snap.Entries), Dropped: len(snap.Warnings)}
	if res.Totals, err = svc.GetTotals(ctx); err != nil {
		return err
	}
	if res.Posters, err = svc.GetPosterURLs(ctx); err != nil {
		return err
	}

	categories := []string{flagCategory}
	if flagCategory == "" {
		if categories, err = svc.GetCategories(ctx); err != nil {
			return err
		}
	}
	res.Matrices = make([]types.Matrix, 0, len(categories))
	for _, c := range categories {
		m, err := svc.GetMatrix(ctx, c)
		if err != nil {
			return err
		}
		res.Matrices = append(res.Matrices, m)
	}

	if output == outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printText(cmd.OutOrStdout(), &res)
}

func printText(w io.Writer, res *fetchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Leaderboard (%d entries, %d rows dropped)\n", res.Entries, res.Dropped)
	fmt.Fprintln(tw, "RANK\tCOLLEGE\tPOINTS")
	for _, t := range res.Totals {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", t.Rank, t.College, t.Points)
	}

	for _, m := range res.Matrices {
		fmt.Fprintf(tw, "\n%s\n", m.Category)
		fmt.Fprintln(tw, "EVENT\t"+strings.Join(m.Colleges, "\t"))
		for i, ev := range m.Events {
			cells := make([]string, len(m.Points[i]))
			for j, p := range m.Points[i] {
				cells[j] = strconv.Itoa(p)
			}
			fmt.Fprintln(tw, ev+"\t"+strings.Join(cells, "\t"))
		}
	}

	fmt.Fprintf(tw, "\n%d posters\n", len(res.Posters))
	for _, p := range res.Posters {
		fmt.Fprintln(tw, p)
	}
	return tw.Flush()
}
