package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/ingest"
)

// source points at a document either on disk or on hh.ru.
type source struct {
	path string
	// hh.ru vacancy id or résumé title.
	remote string
}

func (s source) validate(what string) error {
	switch {
	case s.path != "" && s.remote != "":
		return fmt.Errorf("%s: a file and an hh.ru reference are mutually exclusive", what)
	case s.path == "" && s.remote == "":
		return fmt.Errorf("%s is required", what)
	}
	return nil
}

func loadJobText(ctx context.Context, config *Config, src source, log *zap.Logger) (string, *headhunter.Vacancy, error) {
	if err := src.validate("job"); err != nil {
		return "", nil, err
	}

	if src.path != "" {
		text, err := ingest.ReadFile(src.path)
		return text, nil, err
	}

	hh, err := newHeadhunter(config, false, log)
	if err != nil {
		return "", nil, err
	}

	vacancy, err := hh.GetVacancy(ctx, src.remote)
	if err != nil {
		return "", nil, err
	}

	text, err := vacancy.Text()
	if err != nil {
		return "", nil, fmt.Errorf("vacancy %s: %w", vacancy.ID, err)
	}
	return text, vacancy, nil
}

func loadResumeText(ctx context.Context, config *Config, src source, log *zap.Logger) (string, error) {
	if err := src.validate("resume"); err != nil {
		return "", err
	}

	if src.path != "" {
		return ingest.ReadFile(src.path)
	}

	hh, err := newHeadhunter(config, true, log)
	if err != nil {
		return "", err
	}

	resumes, err := hh.GetMineResumes(ctx)
	if err != nil {
		return "", fmt.Errorf("getting mine resumes: %w", err)
	}

	log.Info("getting mine resumes", zap.Int("count", resumes.Len()))

	selected := resumes.FindByTitle(src.remote)
	if selected == nil {
		return "", fmt.Errorf("resume %q not found, existing titles: %v", src.remote, resumes.Titles())
	}

	details, err := hh.GetResumeDetails(ctx, selected.ID)
	if err != nil {
		return "", fmt.Errorf("getting resume %s: %w", selected.ID, err)
	}

	text, err := details.Text()
	if errors.Is(err, ingest.ErrEmpty) {
		return "", fmt.Errorf("resume %q has no content", src.remote)
	}
	return text, err
}
