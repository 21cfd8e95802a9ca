package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/feedback"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/render"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score already structured job and résumé documents without a model",
	Run: func(cmd *cobra.Command, _ []string) {
		log, config := setup()
		if err := runScore(cmd, config, os.Stdout); err != nil {
			log.Fatal("scoring failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "structured job document (JSON)")
	scoreCmd.Flags().String("resume", "", "structured résumé document (JSON)")
	scoreCmd.Flags().StringToString("weight", nil, "weight override, e.g. --weight hard_skills_match=50")
	scoreCmd.Flags().Bool("raw", false, "print the result as JSON")

	scoreCmd.MarkFlagRequired("job")
	scoreCmd.MarkFlagRequired("resume")
}

func runScore(cmd *cobra.Command, config *Config, w io.Writer) error {
	overrides, _ := cmd.Flags().GetStringToString("weight")
	weights, err := weightsFromConfig(config, overrides)
	if err != nil {
		return err
	}

	jobPath, _ := cmd.Flags().GetString("job")
	resumePath, _ := cmd.Flags().GetString("resume")

	job, err := readDocument(jobPath)
	if err != nil {
		return err
	}
	resume, err := readDocument(resumePath)
	if err != nil {
		return err
	}

	res, err := matching.Score(*job, *resume, weights)
	if err != nil {
		return err
	}
	res.Feedback = feedback.Default(res.Score)

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		data, err := res.MarshalIndent()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	return render.Result(w, res)
}

func readDocument(path string) (*matching.StructuredDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc matching.StructuredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &doc, nil
}
