package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/regex"
	"gopkg.in/yaml.v3"
)

var templatesPath = filepath.Join(".github", "ISSUE_TEMPLATE")

type IssueTemplateService struct {
	repo repoRoot
}

type IssueTemplateOption func(*IssueTemplateService)

func WithTemplateRepo(repo repoRoot) IssueTemplateOption {
	return func(s *IssueTemplateService) {
		s.repo = repo
	}
}

func NewIssueTemplateService(opts ...IssueTemplateOption) *IssueTemplateService {
	s := &IssueTemplateService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TemplatesDir is .github/ISSUE_TEMPLATE under the repository root, or
// under the working directory outside a repository.
func (s *IssueTemplateService) TemplatesDir(ctx context.Context) (string, error) {
	root := ""
	if s.repo != nil {
		if r, err := s.repo.AssertRepo(ctx); err == nil {
			root = r
		}
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			logger.Error(ctx, "failed to get current working directory", err)
			return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to get current working directory", err)
		}
		root = cwd
	}
	dir := filepath.Join(root, templatesPath)
	logger.Debug(ctx, "identified templates directory", "path", dir)
	return dir, nil
}

// ListTemplates loads every .md, .yml and .yaml template, sorted by name.
// Unparseable files are skipped.
func (s *IssueTemplateService) ListTemplates(ctx context.Context) ([]*models.IssueTemplate, error) {
	dir, err := s.TemplatesDir(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Debug(ctx, "templates directory does not exist, returning empty list", "path", dir)
		return []*models.IssueTemplate{}, nil
	}
	if err != nil {
		logger.Error(ctx, "failed to read templates directory", err, "path", dir)
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to read templates directory", err)
	}

	templates := make([]*models.IssueTemplate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) || entry.Name() == "config.yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		tmpl, err := LoadTemplate(path)
		if err != nil {
			logger.Warn(ctx, "skipping invalid template", "path", path, "error", err)
			continue
		}
		templates = append(templates, tmpl)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		return strings.ToLower(templates[i].Name) < strings.ToLower(templates[j].Name)
	})
	logger.Debug(ctx, "listed templates", "count", len(templates))
	return templates, nil
}

// GetTemplate finds a template by its name or file name, ignoring case
// and extension.
func (s *IssueTemplateService) GetTemplate(ctx context.Context, name string) (*models.IssueTemplate, error) {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range templates {
		base := filepath.Base(t.FilePath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if strings.ToLower(t.Name) == want || strings.ToLower(base) == want || strings.ToLower(stem) == want {
			return t, nil
		}
	}
	logger.Warn(ctx, "template not found by name", "name", name, "available", len(templates))
	return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, fmt.Sprintf("template '%s' not found", name), nil).
		WithSuggestion("List the templates under " + templatesPath)
}

// LoadTemplate reads a single template file.
func LoadTemplate(path string) (*models.IssueTemplate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, fmt.Sprintf("failed to read template file: %s", path), err)
	}
	if strings.HasSuffix(path, ".md") {
		return ParseMarkdownTemplate(string(content), path)
	}
	return ParseFormTemplate(content, path)
}

// ParseMarkdownTemplate splits YAML frontmatter from the markdown body.
// Without frontmatter the whole file is the body.
func ParseMarkdownTemplate(content, path string) (*models.IssueTemplate, error) {
	tmpl := &models.IssueTemplate{FilePath: path}

	if m := regex.Frontmatter.FindStringSubmatch(content); m != nil {
		if err := yaml.Unmarshal([]byte(m[1]), tmpl); err != nil {
			return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, fmt.Sprintf("failed to parse template frontmatter: %s", path), err)
		}
		tmpl.Body = strings.TrimSpace(m[2])
	} else {
		tmpl.Body = strings.TrimSpace(content)
	}

	if tmpl.Name == "" {
		tmpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tmpl.FilePath = path
	return tmpl, nil
}

// formField is the subset of a GitHub issue form element used as a body outline.
type formField struct {
	Type       string `yaml:"type"`
	Attributes struct {
		Label string `yaml:"label"`
	} `yaml:"attributes"`
}

// ParseFormTemplate reads a YAML issue form and turns its fields into a
// markdown outline for the body.
func ParseFormTemplate(content []byte, path string) (*models.IssueTemplate, error) {
	var form struct {
		models.IssueTemplate `yaml:",inline"`
		Body                 []formField `yaml:"body"`
	}
	if err := yaml.Unmarshal(content, &form); err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, fmt.Sprintf("failed to parse YAML template: %s", path), err)
	}

	tmpl := form.IssueTemplate
	var sections []string
	for _, field := range form.Body {
		if field.Type == "markdown" || field.Attributes.Label == "" {
			continue
		}
		sections = append(sections, "## "+field.Attributes.Label)
	}
	tmpl.Body = strings.Join(sections, "\n\n")

	if tmpl.Name == "" {
		tmpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tmpl.FilePath = path
	return &tmpl, nil
}

func isTemplateFile(name string) bool {
	switch filepath.Ext(name) {
	case ".md", ".yml", ".yaml":
		return true
	default:
		return false
	}
}
