package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/pipeline"
	"github.com/spigell/hh-matcher/internal/render"
)

const (
	PromptSave     = "Save result"
	PromptShowJSON = "Show JSON"
	PromptExit     = "Exit"
)

var errExit = errors.New("exit requested")

var resultPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSave, PromptShowJSON, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one job description against one résumé",
	Run: func(cmd *cobra.Command, _ []string) {
		log, config := setup()
		if err := runMatch(cmd, config, log); err != nil {
			log.Fatal("matching failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addDocumentFlags(matchCmd)
	matchCmd.Flags().String("job", "", "job description file (text or HTML, - for stdin)")
	matchCmd.Flags().String("vacancy-id", "", "hh.ru vacancy id to use as the job description")
	matchCmd.Flags().BoolP("interactive", "i", false, "ask what to do with the result")
}

// addDocumentFlags registers flags shared by match and batch.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().String("resume", "", "résumé file (text or HTML, - for stdin)")
	cmd.Flags().String("hh-resume", "", "title of your hh.ru résumé, requires a headhunter token")
	cmd.Flags().StringToString("weight", nil, "weight override, e.g. --weight hard_skills_match=50")
	cmd.Flags().Bool("no-feedback", false, "use canned feedback instead of asking the model")
	cmd.Flags().Bool("save", false, "save results to output.results-dir")
}

func resumeSource(cmd *cobra.Command) source {
	path, _ := cmd.Flags().GetString("resume")
	title, _ := cmd.Flags().GetString("hh-resume")
	return source{path: path, remote: title}
}

func matchOptions(cmd *cobra.Command, config *Config) (pipeline.Options, matching.Weights, bool, error) {
	overrides, _ := cmd.Flags().GetStringToString("weight")
	weights, err := weightsFromConfig(config, overrides)
	if err != nil {
		return pipeline.Options{}, nil, false, err
	}

	noFeedback, _ := cmd.Flags().GetBool("no-feedback")
	save, _ := cmd.Flags().GetBool("save")

	return pipeline.Options{
		GenerateFeedback: !noFeedback,
		IncludeDebug:     config.Output.IncludeDebug,
	}, weights, save || config.Output.SaveResults, nil
}

func runMatch(cmd *cobra.Command, config *Config, log *zap.Logger) error {
	ctx := context.Background()

	opts, weights, save, err := matchOptions(cmd, config)
	if err != nil {
		return err
	}

	jobPath, _ := cmd.Flags().GetString("job")
	vacancyID, _ := cmd.Flags().GetString("vacancy-id")

	jobText, vacancy, err := loadJobText(ctx, config, source{path: jobPath, remote: vacancyID}, log)
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}
	if vacancy != nil {
		log.Info("got vacancy", zap.String("vacancy_id", vacancy.ID), zap.String("vacancy_name", vacancy.Name))
	}

	resumeText, err := loadResumeText(ctx, config, resumeSource(cmd), log)
	if err != nil {
		return fmt.Errorf("loading resume: %w", err)
	}

	assembler, closeCache, err := newAssembler(ctx, config, log)
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := assembler.Match(ctx, jobText, resumeText, weights, opts)
	if err != nil {
		return err
	}

	if err := render.Result(os.Stdout, res); err != nil {
		return err
	}

	if save {
		if _, err := saveResult(config, res, log); err != nil {
			return err
		}
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		return nil
	}

	for {
		_, action, err := resultPrompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(action, config, res, log); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleAction(action string, config *Config, res *matching.MatchResult, log *zap.Logger) error {
	switch action {
	case PromptSave:
		_, err := saveResult(config, res, log)
		return err
	case PromptShowJSON:
		data, err := res.MarshalIndent()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
