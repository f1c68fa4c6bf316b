package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"marquee/internal/enrich"
	"marquee/internal/logging"
	"marquee/internal/programme"
	"marquee/internal/runlog"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var resolvePolicy string
	var workers int

	cmd := &cobra.Command{
		Use:   "enrich <programme.json>",
		Short: "Resolve and enrich a programme file against both catalogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			records, err := programme.Load(args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("programme %s contains no records", args[0])
			}

			// One enrichment batch at a time per data dir; the run
			// history database is not meant for concurrent writers.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "marquee.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another enrichment run is already in progress (lock %s)", lock.Path())
			}
			defer func() { _ = lock.Unlock() }()

			store, err := runlog.Open(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			policy := resolvePolicy
			if policy == "" {
				policy = cfg.Enrichment.MismatchPolicy
			}
			resolver, err := buildResolver(policy)
			if err != nil {
				return err
			}

			tmdbClient, err := ctx.tmdbClient()
			if err != nil {
				return err
			}
			allocineClient, err := ctx.allocineClient()
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = cfg.Enrichment.Workers
			}
			engine := enrich.New(tmdbClient, allocineClient, enrich.Options{
				Tuning:    cfg.Tuning(),
				Resolver:  resolver,
				Logger:    logging.NewComponentLogger(logger, "enrich"),
				Workers:   workers,
				CastLimit: cfg.Enrichment.CastLimit,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, err := store.StartRun(runCtx, args[0])
			if err != nil {
				return err
			}

			enriched, summary := engine.EnrichBatch(runCtx, records)

			for _, rec := range enriched {
				outcome := runlog.Outcome{
					RunID:          run.ID,
					Title:          rec.Title,
					Status:         rec.Status,
					Decision:       rec.Decision,
					Verified:       rec.Verified,
					TitleScore:     rec.TitleScore,
					DirectorScore:  rec.DirectorScore,
					TMDBID:         rec.TMDBID,
					ScrapedPageURL: rec.ScrapedPageURL,
					Error:          rec.Error,
				}
				if err := store.RecordOutcome(runCtx, outcome); err != nil {
					logger.Warn("record outcome failed", logging.Error(err))
				}
			}
			if err := store.FinishRun(runCtx, run.ID, runlog.Totals{
				Total:    summary.Total,
				Enriched: summary.Enriched,
				Review:   summary.Review,
				Skipped:  summary.Skipped,
				Failed:   summary.Failed,
			}); err != nil {
				logger.Warn("finish run failed", logging.Error(err))
			}

			if err := programme.Export(outputPath, enriched); err != nil {
				return err
			}

			recordRows := make([][]string, 0, len(enriched))
			for _, rec := range enriched {
				verified := ""
				if rec.Verified {
					verified = "yes"
				}
				note := rec.Error
				if note == "" && rec.Decision != "" {
					note = "decision: " + rec.Decision
				}
				recordRows = append(recordRows, []string{
					rec.Title,
					rec.Status,
					verified,
					fmt.Sprintf("%.2f", rec.TitleScore),
					fmt.Sprintf("%.2f", rec.DirectorScore),
					note,
				})
			}
			fmt.Fprintln(cmd.ErrOrStderr(), renderTable(
				[]string{"Title", "Status", "Verified", "Title score", "Director score", "Notes"},
				recordRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			fmt.Fprintln(cmd.ErrOrStderr(), renderTable(
				[]string{"Total", "Enriched", "Review", "Skipped", "Failed"},
				[][]string{{
					strconv.Itoa(summary.Total),
					strconv.Itoa(summary.Enriched),
					strconv.Itoa(summary.Review),
					strconv.Itoa(summary.Skipped),
					strconv.Itoa(summary.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return runCtx.Err()
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write enriched records to this file instead of stdout")
	cmd.Flags().StringVar(&resolvePolicy, "resolve", "", "Mismatch policy: ask, merge, tmdb, allocine, or skip (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel lookups per phase (default from config)")
	return cmd
}

// buildResolver maps a mismatch policy to a resolver. "ask" prompts on the
// terminal and quietly degrades to the merge policy when stdin is not one.
func buildResolver(policy string) (enrich.Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "ask":
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return enrich.PolicyResolver{Decision: enrich.DecisionMerge}, nil
		}
		return newPromptResolver(os.Stdin, os.Stderr), nil
	case "merge", "tmdb", "allocine", "skip":
		decision, _ := enrich.ParseDecision(strings.ToLower(strings.TrimSpace(policy)))
		return enrich.PolicyResolver{Decision: decision}, nil
	}
	return nil, fmt.Errorf("unknown mismatch policy %q", policy)
}
