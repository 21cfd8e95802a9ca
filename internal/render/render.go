// Package render prints match results for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/pipeline"
)

// MaxFindings caps each findings section.
const MaxFindings = 10

var categoryTitles = []struct {
	key   string
	title string
}{
	{matching.CategoryEducation, "Образование"},
	{matching.CategoryExperience, "Опыт"},
	{matching.CategoryHardSkills, "Hard skills"},
	{matching.CategorySoftSkills, "Soft skills"},
}

// Result writes a full report for a single match.
func Result(w io.Writer, res *matching.MatchResult) error {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Соответствие: "+scoreStyle(res.Score).Render(fmt.Sprintf("%d/100", res.Score))) + "\n")

	if res.Error != "" {
		b.WriteString(ErrorStyle.Render("Ошибка: "+res.Error) + "\n")
	}

	if res.Feedback != "" {
		b.WriteString("\n" + res.Feedback + "\n")
	}

	if len(res.Report.ScoreDetails) > 0 {
		b.WriteString("\n" + SectionStyle.Render("Детализация") + "\n")
		for _, c := range categoryTitles {
			if v, ok := res.Report.ScoreDetails[c.key]; ok {
				fmt.Fprintf(&b, "  %-12s %s\n", c.title, DimStyle.Render(formatPoints(v)))
			}
		}
	}

	writeSection(&b, "Сильные стороны", res.Report.Strengths, StrengthStyle.Render)
	writeSection(&b, "Частичные совпадения", res.Report.PartialMatch, PartialStyle.Render)
	writeSection(&b, "Не хватает", res.Report.MissingRequired, MissingStyle.Render)

	_, err := io.WriteString(w, b.String())
	return err
}

// Batch writes one line per result in the given order.
func Batch(w io.Writer, results []pipeline.PairResult) error {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Вакансий: %d", len(results))) + "\n")

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.ID
		}
		if r.Employer != "" {
			title += DimStyle.Render(" / " + r.Employer)
		}

		fmt.Fprintf(&b, "%3d. %s %s\n", i+1, scoreStyle(r.Result.Score).Render(fmt.Sprintf("%3d", r.Result.Score)), title)
		if r.URL != "" {
			b.WriteString("     " + LinkStyle.Render(r.URL) + "\n")
		}
		if r.Result.Error != "" {
			b.WriteString("     " + ErrorStyle.Render(r.Result.Error) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, items []string, style func(...string) string) {
	if len(items) == 0 {
		return
	}

	b.WriteString("\n" + SectionStyle.Render(title) + "\n")
	for i, item := range items {
		if i == MaxFindings {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... и ещё %d", len(items)-MaxFindings)) + "\n")
			break
		}
		b.WriteString("  " + style(item) + "\n")
	}
}

func formatPoints(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
