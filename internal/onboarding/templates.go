package onboarding

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
	"taskodo/internal/task"
)

// DefaultTemplateID is preselected when a caller does not name a template.
const DefaultTemplateID = "minimal"

var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates.yml
var templatesYAML []byte

type TemplateTag struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// TemplateTask is a task without id, check history or order.
type TemplateTask struct {
	Title  string        `yaml:"title" json:"title"`
	Desc   string        `yaml:"desc" json:"desc"`
	Tags   []TemplateTag `yaml:"tags" json:"tags"`
	Color  string        `yaml:"color" json:"color"`
	Line   int           `yaml:"line" json:"line"`
	Effort int           `yaml:"effort,omitempty" json:"effort,omitempty"`
	Days   []string      `yaml:"days" json:"days"`
}

type Template struct {
	ID    string         `yaml:"id" json:"id"`
	Title string         `yaml:"title" json:"title"`
	Desc  string         `yaml:"desc" json:"desc"`
	Tasks []TemplateTask `yaml:"tasks" json:"tasks"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

var (
	loadOnce  sync.Once
	templates []Template
	loadErr   error
)

func load() ([]Template, error) {
	loadOnce.Do(func() {
		templates, loadErr = parseTemplates(templatesYAML)
	})
	return templates, loadErr
}

func parseTemplates(b []byte) ([]Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	seen := map[string]bool{}
	for _, t := range f.Templates {
		if t.ID == "" {
			return nil, errors.New("parse templates: template without id")
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("parse templates: duplicate id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return f.Templates, nil
}

// List returns the built-in template packs in display order.
func List() ([]Template, error) {
	ts, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]Template, len(ts))
	copy(out, ts)
	return out, nil
}

func Find(id string) (Template, error) {
	ts, err := load()
	if err != nil {
		return Template{}, err
	}
	for _, t := range ts {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
}

// Materialize builds the template with fresh ids, no checks and order set
// to each task's position in the template.
func (t Template) Materialize(newID func() model.TaskID) []model.Task {
	if newID == nil {
		newID = func() model.TaskID { return model.TaskID(uuid.NewString()) }
	}
	out := make([]model.Task, 0, len(t.Tasks))
	for i, tt := range t.Tasks {
		tags := make([]model.Tag, 0, len(tt.Tags))
		for _, tag := range tt.Tags {
			tags = append(tags, model.Tag{ID: tag.ID, Label: tag.Label})
		}
		days := make([]datekey.WeekDay, 0, len(tt.Days))
		for _, d := range tt.Days {
			days = append(days, datekey.WeekDay(d))
		}
		out = append(out, model.Task{
			ID:         newID(),
			Title:      tt.Title,
			Desc:       tt.Desc,
			Tags:       tags,
			Color:      tt.Color,
			Line:       model.Line(tt.Line),
			Effort:     model.Effort(tt.Effort),
			Order:      i,
			Checked:    []model.CheckEntry{},
			Recurrence: model.Weekly{Days: days},
		})
	}
	return out
}

// ApplyTemplate appends the template's tasks after whatever is already on
// the board and returns the created tasks.
func ApplyTemplate(repo task.Repo, id string) ([]model.Task, error) {
	if id == "" {
		id = DefaultTemplateID
	}
	tpl, err := Find(id)
	if err != nil {
		return nil, err
	}

	existing, err := repo.List()
	if err != nil {
		return nil, err
	}
	created := tpl.Materialize(nil)
	next := append(existing, created...)
	if err := repo.SetAll(next); err != nil {
		return nil, err
	}
	return created, nil
}
