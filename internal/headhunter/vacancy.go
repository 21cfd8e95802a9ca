package headhunter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spigell/hh-matcher/internal/ingest"
)

type Vacancies struct {
	Items []*Vacancy
}

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
}

type Vacancy struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Area         Named    `json:"area,omitempty"`
	Experience   Named    `json:"experience,omitempty"`
	Schedule     Named    `json:"schedule,omitempty"`
	Employment   Named    `json:"employment,omitempty"`
	Employer     Employer `json:"employer,omitempty"`
	AlternateURL string   `json:"alternate_url,omitempty"`
	Description  string   `json:"description,omitempty"`
	KeySkills    []Named  `json:"key_skills,omitempty"`
	Archived     bool     `json:"archived,omitempty"`
	Snippet      struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Text renders the vacancy as plain text suitable for attribute extraction.
// Search results carry no description, so the snippet is used instead.
func (va *Vacancy) Text() (string, error) {
	var b strings.Builder
	b.WriteString(va.Name + "\n")
	if va.Employer.Name != "" {
		b.WriteString("Компания: " + va.Employer.Name + "\n")
	}
	if va.Experience.Name != "" {
		b.WriteString("Требуемый опыт: " + va.Experience.Name + "\n")
	}

	body := va.Description
	if strings.TrimSpace(body) == "" {
		body = strings.TrimSpace(va.Snippet.Requirement + "\n" + va.Snippet.Responsibility)
	}
	if body != "" {
		b.WriteString(body + "\n")
	}

	if len(va.KeySkills) > 0 {
		names := make([]string, 0, len(va.KeySkills))
		for _, s := range va.KeySkills {
			names = append(names, s.Name)
		}
		b.WriteString("Ключевые навыки: " + strings.Join(names, ", ") + "\n")
	}

	return ingest.Clean(b.String())
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

func (v *Vacancies) FindByID(id string) *Vacancy {
	for _, vacancy := range v.Items {
		if vacancy.ID == id {
			return vacancy
		}
	}
	return nil
}

// Exclude removes vacancies with the given ids, keeping the order of the
// rest, and returns the removed ids.
func (v *Vacancies) Exclude(ids []string) []string {
	skip := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}

	var excluded []string
	kept := v.Items[:0]
	for _, vacancy := range v.Items {
		if _, ok := skip[vacancy.ID]; ok {
			excluded = append(excluded, vacancy.ID)
			continue
		}
		kept = append(kept, vacancy)
	}
	v.Items = kept

	return excluded
}

// ToExcluded converts every vacancy into an exclude file entry with the given reason.
func (v *Vacancies) ToExcluded(reason string) []*ExcludedVacancy {
	now := time.Now().UTC()
	excluded := make([]*ExcludedVacancy, 0, len(v.Items))
	for _, vacancy := range v.Items {
		excluded = append(excluded, &ExcludedVacancy{
			ID:           vacancy.ID,
			URL:          vacancy.AlternateURL,
			EmployerName: vacancy.Employer.Name,
			Reason:       reason,
			ExcludedAt:   now,
		})
	}
	return excluded
}

type ExcludedVacancies struct {
	Items []*ExcludedVacancy
}

type ExcludedVacancy struct {
	ID           string
	URL          string
	EmployerName string
	Reason       string `json:",omitempty"`
	ExcludedAt   time.Time
}

// GetExcludedVacanciesFromFile loads an exclude file. A missing or empty file
// yields an empty list.
func GetExcludedVacanciesFromFile(path string) (*ExcludedVacancies, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedVacancies{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedVacancies{}, nil
	}

	var excluded ExcludedVacancies
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %s: %w", path, err)
	}
	return &excluded, nil
}

func (v *ExcludedVacancies) Append(items ...*ExcludedVacancy) {
	v.Items = append(v.Items, items...)
}

func (v *ExcludedVacancies) VacanciesIDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, vacancy := range v.Items {
		ids = append(ids, vacancy.ID)
	}
	return ids
}

func (v *ExcludedVacancies) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
