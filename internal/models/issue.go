package models

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Label struct {
	Name  string
	Color string
}

// Issue is a row of the issue listing.
type Issue struct {
	Number    int
	Title     string
	Author    string
	Labels    []Label
	UpdatedAt time.Time
	URL       string
	State     string
}

// IssueTemplate is a repository issue template: a markdown file with YAML
// frontmatter or a YAML issue form.
type IssueTemplate struct {
	Name        string    `yaml:"name"`
	About       string    `yaml:"about,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Title       string    `yaml:"title,omitempty"`
	Labels      LabelList `yaml:"labels,omitempty"`
	Body        string    `yaml:"-"`
	FilePath    string    `yaml:"-"`
}

// Summary is the one-line description shown when listing templates.
func (t *IssueTemplate) Summary() string {
	if t.About != "" {
		return t.About
	}
	return t.Description
}

// LabelList accepts both `labels: [a, b]` and `labels: "a, b"`.
type LabelList []string

func (l *LabelList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var out LabelList
		for _, label := range strings.Split(node.Value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				out = append(out, label)
			}
		}
		*l = out
		return nil
	default:
		var labels []string
		if err := node.Decode(&labels); err != nil {
			return err
		}
		*l = labels
		return nil
	}
}

// IssueDraft is the generated issue ready to be reviewed and filed.
type IssueDraft struct {
	Title  string
	Body   string
	Labels []string
}
