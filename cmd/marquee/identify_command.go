package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/enrich"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var director string

	cmd := &cobra.Command{
		Use:   "identify <title>",
		Short: "Look up a single title in both catalogs and show the match scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tuning := cfg.Tuning()
			title := args[0]

			allocineClient, err := ctx.allocineClient()
			if err != nil {
				return err
			}
			scrapedCandidates, err := allocineClient.Search(cmd.Context(), title)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "allocine search failed: %v\n", err)
			}
			scraped := enrich.SelectScraped(tuning, title, director, scrapedCandidates)
			printPick(cmd, "AlloCiné", scraped)

			tmdbClient, err := ctx.tmdbClient()
			if err != nil {
				return err
			}
			resp, err := tmdbClient.SearchMovie(cmd.Context(), title, tmdbClient.Language())
			if err != nil {
				return err
			}
			structuredCandidates := make([]catalog.Candidate, 0, len(resp.Results))
			for _, result := range resp.Results {
				structuredCandidates = append(structuredCandidates, catalog.Candidate{
					ID:            strconv.FormatInt(result.ID, 10),
					Title:         result.Title,
					OriginalTitle: result.OriginalTitle,
					ReleaseDate:   result.ReleaseDate,
					Popularity:    result.Popularity,
					VoteCount:     result.VoteCount,
				})
			}
			fetch := func(fetchCtx context.Context, candidate catalog.Candidate) ([]string, error) {
				movieID, err := strconv.ParseInt(candidate.ID, 10, 64)
				if err != nil {
					return nil, err
				}
				credits, err := tmdbClient.MovieCredits(fetchCtx, movieID, tmdbClient.Language())
				if err != nil {
					return nil, err
				}
				return credits.Directors(), nil
			}
			structured := enrich.SelectStructured(cmd.Context(), tuning, title, director, structuredCandidates, fetch)
			printPick(cmd, "TMDB", structured)

			if scraped.Found && structured.Found {
				verification := enrich.Verify(tuning, enrich.CatalogView{
					Title:       scraped.Candidate.Title,
					Directors:   scraped.Directors,
					ReleaseDate: scraped.Candidate.ReleaseDate,
				}, enrich.CatalogView{
					Title:         structured.Candidate.Title,
					OriginalTitle: structured.Candidate.OriginalTitle,
					Directors:     structured.Directors,
					ReleaseDate:   structured.Candidate.ReleaseDate,
				})
				verdict := "mismatch"
				if verification.Verified {
					verdict = "verified"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nCross-catalog check: %s (title %.2f, director %.2f)\n",
					verdict, verification.TitleScore, verification.DirectorScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&director, "director", "d", "", "Director name to weigh into the match score")
	return cmd
}

func printPick(cmd *cobra.Command, label string, result enrich.MatchResult) {
	out := cmd.OutOrStdout()
	if len(result.Candidates) == 0 {
		fmt.Fprintf(out, "%s: no candidates\n", label)
		return
	}

	rows := make([][]string, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		marker := ""
		if result.Found && candidate.ID == result.Candidate.ID {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			candidate.Title,
			candidate.DirectorsJoined(),
			candidate.ReleaseDate,
		})
	}
	fmt.Fprintln(out, label)
	fmt.Fprintln(out, renderTable(
		[]string{"", "Title", "Directors", "Release"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	if result.Found {
		fmt.Fprintf(out, "best: %s (title %.2f, director %.2f, composite %.2f)\n",
			result.Candidate.Title, result.TitleScore, result.DirectorScore, result.Composite)
	} else {
		fmt.Fprintf(out, "no candidate above the acceptance threshold (best composite %.2f)\n", result.Composite)
	}
}
