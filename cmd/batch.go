package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/ingest"
	"github.com/spigell/hh-matcher/internal/pipeline"
	"github.com/spigell/hh-matcher/internal/render"
)

var batchCmd = &cobra.Command{
	Use:   "batch [job files...]",
	Short: "Score many jobs against one résumé and print them ranked",
	Long: "Score job description files, or vacancies found by headhunter.search with --search,\n" +
		"against one résumé. Results are filtered and printed sorted by score.",
	Run: func(cmd *cobra.Command, args []string) {
		log, config := setup()
		if err := runBatch(cmd, args, config, log); err != nil {
			log.Fatal("batch failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addDocumentFlags(batchCmd)
	batchCmd.Flags().Bool("search", false, "take jobs from hh.ru using headhunter.search")
	batchCmd.Flags().Int("limit", 0, "maximum number of vacancies to score (0 means all)")
	batchCmd.Flags().Int("minimum-score", -1, "drop results below this score (default batch.minimum-score)")
	batchCmd.Flags().StringSlice("skip-filter", nil, "filters to skip: failed, employers, minimum_score")
	batchCmd.Flags().Bool("exclude-dropped", false, "append rejected vacancies to headhunter.exclude-file (with --search)")
}

func runBatch(cmd *cobra.Command, args []string, config *Config, log *zap.Logger) error {
	ctx := context.Background()

	opts, weights, save, err := matchOptions(cmd, config)
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetBool("search")
	exclude, _ := cmd.Flags().GetBool("exclude-dropped")
	// Job files have no hh.ru ids to exclude.
	if exclude && !search {
		return fmt.Errorf("--exclude-dropped works only with --search")
	}

	resumeText, err := loadResumeText(ctx, config, resumeSource(cmd), log)
	if err != nil {
		return fmt.Errorf("loading resume: %w", err)
	}

	var pairs []pipeline.Pair
	switch {
	case search && len(args) > 0:
		return fmt.Errorf("job files and --search are mutually exclusive")
	case search:
		limit, _ := cmd.Flags().GetInt("limit")
		pairs, err = searchPairs(ctx, config, limit, resumeText, log)
	case len(args) > 0:
		pairs, err = filePairs(args, resumeText)
	default:
		return fmt.Errorf("give job files as arguments or use --search")
	}
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		log.Info("exiting", zap.String("reason", "no vacancies found"))
		return nil
	}

	assembler, closeCache, err := newAssembler(ctx, config, log)
	if err != nil {
		return err
	}
	defer closeCache()

	log.Info("matching", zap.Int("pairs", len(pairs)), zap.Int("concurrency", config.Batch.Concurrency))

	matched, err := assembler.MatchPairs(ctx, pairs, weights, opts, config.Batch.Concurrency)
	if err != nil {
		return err
	}

	minimum := config.Batch.MinimumScore
	if flagMinimum, _ := cmd.Flags().GetInt("minimum-score"); flagMinimum >= 0 {
		minimum = flagMinimum
	}

	steps := []filtering.Filter{
		filtering.NewFailed(),
		filtering.NewEmployers(config.Headhunter.Employers),
		filtering.NewMinimumScore(minimum),
	}

	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(steps, name, "skipped by flag")
	}
	log.Debug("filters", zap.Any("status", filtering.Describe(steps)))
	kept, dropped := filtering.Run(steps, matched, log)

	if err := render.Batch(os.Stdout, kept); err != nil {
		return err
	}

	if save {
		for _, r := range kept {
			if _, err := saveResult(config, r.Result, log); err != nil {
				return err
			}
		}
	}

	if exclude {
		return excludeDropped(config.Headhunter.ExcludeFile, dropped, log)
	}
	return nil
}

func filePairs(paths []string, resumeText string) ([]pipeline.Pair, error) {
	pairs := make([]pipeline.Pair, 0, len(paths))
	for _, path := range paths {
		text, err := ingest.ReadFile(path)
		if err != nil {
			return nil, err
		}

		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		pairs = append(pairs, pipeline.Pair{
			Meta:       pipeline.Meta{ID: path, Title: title},
			JobText:    text,
			ResumeText: resumeText,
		})
	}
	return pairs, nil
}

func searchPairs(ctx context.Context, config *Config, limit int, resumeText string, log *zap.Logger) ([]pipeline.Pair, error) {
	params := config.Headhunter.Search
	if params == nil || params.Text == "" {
		return nil, fmt.Errorf("headhunter.search.text is required for --search")
	}
	if limit > 0 {
		params.Limit = limit
	}

	hh, err := newHeadhunter(config, false, log)
	if err != nil {
		return nil, err
	}

	log.Info("starting the search", zap.String("search", params.Text))

	vacancies, err := hh.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	log.Info("getting vacancies", zap.Int("count", vacancies.Len()))

	if file := config.Headhunter.ExcludeFile; file != "" {
		excluded, err := headhunter.GetExcludedVacanciesFromFile(file)
		if err != nil {
			return nil, err
		}
		removed := vacancies.Exclude(excluded.VacanciesIDs())
		log.Info("excluded vacancies from file", zap.String("filename", file), zap.Int("count", len(removed)))
	}

	pairs := make([]pipeline.Pair, 0, vacancies.Len())
	for _, vacancy := range vacancies.Items {
		text, err := vacancy.Text()
		if err != nil {
			log.Warn("skipping vacancy without text", zap.String("vacancy_id", vacancy.ID), zap.Error(err))
			continue
		}

		pairs = append(pairs, pipeline.Pair{
			Meta: pipeline.Meta{
				ID:         vacancy.ID,
				Title:      vacancy.Name,
				URL:        vacancy.AlternateURL,
				Employer:   vacancy.Employer.Name,
				EmployerID: vacancy.Employer.ID,
			},
			JobText:    text,
			ResumeText: resumeText,
		})
	}
	return pairs, nil
}

// excludeDropped appends rejected vacancies to the exclude file. Results whose
// analysis failed are kept out of it so they are scored again next time.
func excludeDropped(file string, dropped []filtering.Dropped, log *zap.Logger) error {
	if file == "" {
		return fmt.Errorf("headhunter.exclude-file is not configured")
	}

	now := time.Now().UTC()
	var items []*headhunter.ExcludedVacancy
	for _, d := range dropped {
		if d.Filter == filtering.NameFailed || (d.Result != nil && d.Result.Failed()) {
			log.Debug("not excluding failed vacancy", zap.String("vacancy_id", d.ID), zap.String("reason", d.Reason))
			continue
		}
		items = append(items, &headhunter.ExcludedVacancy{
			ID:           d.ID,
			URL:          d.URL,
			EmployerName: d.Employer,
			Reason:       fmt.Sprintf("%s: %s", d.Filter, d.Reason),
			ExcludedAt:   now,
		})
	}
	if len(items) == 0 {
		return nil
	}

	excluded, err := headhunter.GetExcludedVacanciesFromFile(file)
	if err != nil {
		return err
	}
	excluded.Append(items...)

	if err := excluded.ToFile(file); err != nil {
		return err
	}

	log.Info("appended to exclude file", zap.String("filename", file), zap.Int("count", len(items)))
	return nil
}
