package headhunter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/hh-matcher/internal/ingest"
)

type Resumes struct {
	Items []*Resume
}

type Resume struct {
	Title string
	ID    string `json:"id,omitempty"`
}

// ResumeDetails is a full résumé as returned by /resumes/{id}.
type ResumeDetails struct {
	ID    string
	Title string
	Raw   map[string]any
}

type resumeView struct {
	Title           string `mapstructure:"title"`
	TotalExperience struct {
		Months int `mapstructure:"months"`
	} `mapstructure:"total_experience"`
	SkillSet  []string `mapstructure:"skill_set"`
	Skills    string   `mapstructure:"skills"`
	Education struct {
		Level struct {
			Name string `mapstructure:"name"`
		} `mapstructure:"level"`
		Primary []struct {
			Name         string `mapstructure:"name"`
			Organization string `mapstructure:"organization"`
			Result       string `mapstructure:"result"`
			Year         int    `mapstructure:"year"`
		} `mapstructure:"primary"`
	} `mapstructure:"education"`
	Experience []struct {
		Company     string `mapstructure:"company"`
		Position    string `mapstructure:"position"`
		Start       string `mapstructure:"start"`
		End         string `mapstructure:"end"`
		Description string `mapstructure:"description"`
	} `mapstructure:"experience"`
}

// GetMineResumes lists résumés of the token owner.
func (c *Client) GetMineResumes(ctx context.Context) (*Resumes, error) {
	if c.token == "" {
		return nil, fmt.Errorf("headhunter token is required to list resumes")
	}

	apiURLMineResumes := fmt.Sprintf("%s/resumes/%s", c.APIURL, mineResumID)

	items, err := c.GetItems(ctx, apiURLMineResumes, nil)
	if err != nil {
		return nil, err
	}

	var resumes []*Resume
	if err = mapstructure.Decode(items, &resumes); err != nil {
		return nil, err
	}

	return &Resumes{
		Items: resumes,
	}, nil
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) Titles() []string {
	ids := make([]string, 0, len(r.Items))

	for _, v := range r.Items {
		ids = append(ids, v.Title)
	}

	return ids
}

func (r *Resumes) FindByTitle(title string) *Resume {
	for _, resume := range r.Items {
		if resume.Title == title {
			return resume
		}
	}

	return nil
}

func (c *Client) GetResumeDetails(ctx context.Context, id string) (*ResumeDetails, error) {
	if id == "" {
		return nil, fmt.Errorf("resume id is required")
	}

	apiURL := fmt.Sprintf("%s/resumes/%s", c.APIURL, id)

	var raw map[string]any
	if err := c.getJSON(ctx, apiURL, nil, &raw); err != nil {
		return nil, err
	}

	if raw == nil {
		raw = make(map[string]any)
	}

	return &ResumeDetails{
		ID:    valueAsString(raw["id"]),
		Title: valueAsString(raw["title"]),
		Raw:   raw,
	}, nil
}

// Text renders the résumé sections relevant for matching as plain text.
func (d *ResumeDetails) Text() (string, error) {
	var view resumeView
	cfg := &mapstructure.DecoderConfig{Result: &view, WeaklyTypedInput: true}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return "", err
	}
	if err := decoder.Decode(d.Raw); err != nil {
		return "", fmt.Errorf("decode resume %s: %w", d.ID, err)
	}

	var b strings.Builder
	b.WriteString(view.Title + "\n")

	if months := view.TotalExperience.Months; months > 0 {
		fmt.Fprintf(&b, "Общий опыт работы: %d лет %d мес.\n", months/12, months%12)
	}

	if view.Education.Level.Name != "" {
		b.WriteString("Образование: " + view.Education.Level.Name + "\n")
	}
	for _, e := range view.Education.Primary {
		line := strings.TrimSpace(strings.Join(nonEmpty(e.Name, e.Organization, e.Result), ", "))
		if e.Year > 0 {
			line = fmt.Sprintf("%s (%d)", line, e.Year)
		}
		b.WriteString("- " + line + "\n")
	}

	if len(view.Experience) > 0 {
		b.WriteString("Опыт работы:\n")
		for _, e := range view.Experience {
			end := e.End
			if end == "" {
				end = "по настоящее время"
			}
			fmt.Fprintf(&b, "- %s, %s (%s – %s)\n", e.Position, e.Company, e.Start, end)
			if e.Description != "" {
				b.WriteString(e.Description + "\n")
			}
		}
	}

	if len(view.SkillSet) > 0 {
		b.WriteString("Навыки: " + strings.Join(view.SkillSet, ", ") + "\n")
	}
	if view.Skills != "" {
		b.WriteString("О себе: " + view.Skills + "\n")
	}

	return ingest.Clean(b.String())
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func valueAsString(v any) string {
	if v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
