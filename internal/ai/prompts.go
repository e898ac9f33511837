package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/dash/internal/models"
)

const (
	CommitTypeConventional = "conventional"

	mergeBodyLimit = 1000
	defaultLocale  = "en"
)

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const commitExamples = `EXAMPLES (correct format, type and subject only):
- feat: add user login with OAuth integration
- fix: resolve memory leak in image processing service
- refactor: improve message generation with better prompts
- refactor: increase default max-length from 50 to 100
- docs: update installation and configuration guide
- test: add unit tests for JWT token validation
- chore: update axios to v1.6.0 for security patches

WRONG FORMAT (never use a scope):
- feat(auth): add user login
- refactor(commit): improve prompts`

const conventionalTypeGuidelines = `Pick the category that best describes the diff:
- feat: a NEW user-facing feature or capability
- fix: a bug fix that resolves an existing issue
- docs: documentation only (README, comments)
- style: formatting with no change in meaning (white-space, semicolons)
- refactor: restructuring or internal improvements to existing behaviour
- perf: a change that improves performance
- test: adding or correcting tests
- build: build system or external dependencies
- ci: CI configuration files and scripts
- chore: maintenance, config or tooling updates
- revert: reverts a previous commit

IMPORTANT:
- Use 'feat' ONLY for new user-facing features
- A purely cosmetic change is 'style', never 'feat'
- Use 'refactor' for internal improvements and 'chore' for maintenance
- Use the exact type name from the list above`

const commitSystemTemplate = `You are a professional git commit message generator. Generate ONLY conventional commit messages.

CRITICAL RULES:
- Return ONLY the commit message line, nothing else
- Use format: type: subject (no scope)
- Maximum {{.MaxLength}} characters, concise but complete
- Imperative mood, present tense
- Be specific and descriptive
- No explanations, questions or meta-commentary
- Never stop mid-sentence

COMMIT TYPES:
- feat: NEW user-facing feature or functionality
- fix: bug fix that resolves an issue
- docs: documentation changes only
- style: formatting, no logic change
- refactor: code restructuring, improvements, or internal changes
- perf: performance improvements
- test: adding or updating tests
- build: build system changes
- ci: CI/CD changes
- chore: maintenance tasks, dependencies, config updates

QUALITY GUIDELINES:
- Lead with the most important change
- Name the main component or area affected
- Say what was done, not which files changed

{{.Examples}}
{{if .TypeGuidelines}}
DETAILED TYPE GUIDELINES:
{{.TypeGuidelines}}
{{end}}
Language: {{.Locale}}
Output format: {{.OutputFormat}}

Generate a single, complete, professional commit message that accurately describes the changes.`

type commitSystemData struct {
	MaxLength      int
	Locale         string
	Examples       string
	TypeGuidelines string
	OutputFormat   string
}

// CommitSystemPrompt is the instruction block for commit generation.
func CommitSystemPrompt(locale string, maxLength int, commitType string) (string, error) {
	data := commitSystemData{
		MaxLength:    maxLength,
		Locale:       orDefault(locale, defaultLocale),
		Examples:     commitExamples,
		OutputFormat: "type: subject",
	}
	if commitType == CommitTypeConventional {
		data.TypeGuidelines = conventionalTypeGuidelines
		data.OutputFormat = "<type>(<optional scope>): <commit message>"
	}
	return RenderPrompt("commit_system", commitSystemTemplate, data)
}

const commitUserTemplate = `{{if .Custom}}{{.Custom}}{{else}}Analyze the following git changes and generate a single, complete conventional commit message.{{end}}

CHANGES SUMMARY:
{{.Summary}}
{{if .Snippets}}
CODE CONTEXT:
{{.Snippets}}
{{end}}{{if .Custom}}
Maximum {{.MaxLength}} characters. Return only the commit message line, no explanations.{{else}}
TASK: Write ONE conventional commit message that accurately describes what was changed.

REQUIREMENTS:
- Format: type: subject (no scope)
- Maximum {{.MaxLength}} characters
- Imperative mood, present tense
- Include the main component or area affected

COMMIT TYPE GUIDELINES:
- feat: NEW user-facing features only
- refactor: code improvements, restructuring, internal changes
- fix: bug fixes that resolve issues
- docs: documentation changes only
- chore: config updates, maintenance, dependencies

{{.Examples}}

Return only the commit message line, no explanations.{{end}}`

// CommitUserPrompt wraps the digest of the staged changes. A custom prompt
// replaces the instructions, never the change context.
func CommitUserPrompt(summary, snippets string, maxLength int, custom string) (string, error) {
	return RenderPrompt("commit_user", commitUserTemplate, map[string]interface{}{
		"Custom":    strings.TrimSpace(custom),
		"Summary":   summary,
		"Snippets":  snippets,
		"MaxLength": maxLength,
		"Examples":  commitExamples,
	})
}

const prSystemPrompt = `You are a senior engineer writing pull request descriptions.
Describe what changed and why, using only facts present in the commits and statistics provided.
Do not invent changes. Use markdown in the body.
Always answer in the exact TITLE/BODY format requested.`

// PRSystemPrompt keeps the format contract even when a custom prompt is set.
func PRSystemPrompt(custom string) string {
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom + "\n\nAlways answer in the exact TITLE/BODY format requested."
	}
	return prSystemPrompt
}

const prUserTemplate = `{{if .Custom}}{{.Custom}}

{{end}}Create a pull request for branch "{{.Ctx.BranchName}}" into "{{.Ctx.BaseBranch}}".

STATS: {{.Ctx.Stats.Files}} files changed, +{{.Ctx.Stats.Insertions}} -{{.Ctx.Stats.Deletions}}
{{if .Histogram}}COMMIT TYPES: {{.Histogram}}
{{end}}
COMMITS ({{len .Ctx.Commits}}):
{{range $i, $c := .Ctx.Commits}}{{inc $i}}. {{$c.Message}}
{{if $c.Body}}{{indent $c.Body}}
{{end}}{{end}}{{if .Ctx.DiffSummary}}
CHANGES SUMMARY:
{{.Ctx.DiffSummary}}
{{end}}{{if .Ctx.Issue}}
This PR closes issue #{{.Ctx.Issue}}. End the body with "Closes #{{.Ctx.Issue}}".
{{end}}{{if not .Custom}}
GUIDELINES:
- Title: conventional commit style, under 72 characters, matching the dominant commit type
- Body: a short summary paragraph, then a "## Changes" bullet list grouped by area
- Mention breaking changes or migration steps when the commits show them
{{end}}
Language: {{.Locale}}

FORMAT YOUR RESPONSE EXACTLY LIKE THIS:
TITLE: <pull request title>
BODY:
<markdown body>

Do not include any other text or explanations.`

var promptFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"indent": func(s string) string {
		lines := strings.Split(strings.TrimSpace(s), "\n")
		for i, l := range lines {
			lines[i] = "   " + l
		}
		return strings.Join(lines, "\n")
	},
}

func renderWithFuncs(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(promptFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// PRUserPrompt renders the branch context for PR creation.
func PRUserPrompt(ctx models.PRContext, custom string) (string, error) {
	return renderWithFuncs("pr_user", prUserTemplate, map[string]interface{}{
		"Custom":    strings.TrimSpace(custom),
		"Ctx":       ctx,
		"Histogram": FormatHistogram(TypeHistogram(models.Subjects(ctx.Commits))),
		"Locale":    orDefault(ctx.Locale, defaultLocale),
	})
}

const PRUpdateSystemPrompt = `You are a professional developer updating a pull request description.
You will be given the current PR title and body, along with a user's request for changes.
Update the PR to incorporate the requested changes while preserving relevant existing content.
Use markdown formatting for the body.`

const prUpdateTemplate = `CURRENT PR #{{.PR.Number}}:
Title: {{.PR.Title}}
Body:
{{if .PR.Body}}{{.PR.Body}}{{else}}(empty){{end}}

USER'S EDIT REQUEST:
{{.Request}}

LATEST COMMITS:
{{range $i, $c := .Ctx.Commits}}{{inc $i}}. {{$c.Message}}
{{end}}
STATS: {{.Ctx.Stats.Files}} files changed, +{{.Ctx.Stats.Insertions}} -{{.Ctx.Stats.Deletions}}

Generate an updated PR title and description that incorporates the user's requested changes.
Language: {{.Locale}}

FORMAT YOUR RESPONSE EXACTLY LIKE THIS:
TITLE: <your updated title here>
BODY:
<your updated markdown body here>

Do not include any other text or explanations.`

func PRUpdatePrompt(existing models.PullRequest, request string, ctx models.PRContext) (string, error) {
	return renderWithFuncs("pr_update", prUpdateTemplate, map[string]interface{}{
		"PR":      existing,
		"Request": strings.TrimSpace(request),
		"Ctx":     ctx,
		"Locale":  orDefault(ctx.Locale, defaultLocale),
	})
}

const MergeSystemPrompt = `You are generating a concise merge commit message for a pull request.
The message should summarize what the PR accomplishes in one line.
Keep it under 72 characters. Use imperative mood.
Do not include PR numbers or branch names.`

const mergeTemplate = `PR Title: {{.Title}}

PR Description:
{{.Body}}

Generate a concise merge commit message. Return only the message, nothing else.`

// MergeCommitPrompt only sends the first 1000 characters of the PR body.
func MergeCommitPrompt(title, body string) (string, error) {
	if r := []rune(body); len(r) > mergeBodyLimit {
		body = string(r[:mergeBodyLimit])
	}
	return RenderPrompt("merge", mergeTemplate, map[string]string{"Title": title, "Body": body})
}

const summarySystemPrompt = `You are a senior engineer summarizing the work done on a git branch for a teammate.
Explain what changed and why, grouped by theme, using only the commits and statistics provided.
Use concise markdown: a one-paragraph overview, then "## Highlights" as a bullet list, then "## Risks" if anything looks risky.
Do not invent changes and do not wrap the answer in a code block.`

func SummarySystemPrompt(custom string) string {
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom
	}
	return summarySystemPrompt
}

const summaryUserTemplate = `{{if .Custom}}{{.Custom}}

{{end}}Summarize the changes on branch "{{.Ctx.CurrentBranch}}" compared to "{{.Ctx.TargetBranch}}".

STATS: {{.Ctx.Stats.Files}} files changed, +{{.Ctx.Stats.Insertions}} -{{.Ctx.Stats.Deletions}}
{{if .Histogram}}COMMIT TYPES: {{.Histogram}}
{{end}}
COMMITS ({{len .Ctx.Commits}}):
{{range $i, $c := .Ctx.Commits}}{{inc $i}}. {{$c.Message}}
{{if $c.Body}}{{indent $c.Body}}
{{end}}{{end}}{{if .Ctx.DiffSummary}}
CHANGES SUMMARY:
{{.Ctx.DiffSummary}}
{{end}}
Language: {{.Locale}}`

func SummaryUserPrompt(ctx models.SummaryContext, custom string) (string, error) {
	return renderWithFuncs("summary_user", summaryUserTemplate, map[string]interface{}{
		"Custom":    strings.TrimSpace(custom),
		"Ctx":       ctx,
		"Histogram": FormatHistogram(TypeHistogram(models.Subjects(ctx.Commits))),
		"Locale":    orDefault(ctx.Locale, defaultLocale),
	})
}

const IssueSystemPrompt = `You are a maintainer turning a short problem description into a clear GitHub issue.
Write a specific title and a markdown body with context, expected behaviour and next steps.
Only use information from the description. Always answer in the exact TITLE/BODY/LABELS format requested.`

const issueTemplate = `DESCRIPTION:
{{.Request}}
{{if .Template}}
The project has an issue template "{{.Template.Name}}". Follow its structure for the body:
` + "```markdown" + `
{{.Template.Body}}
` + "```" + `
{{if .Template.Labels}}Prefer these labels: {{join .Template.Labels ", "}}
{{end}}{{end}}
Language: {{.Locale}}

FORMAT YOUR RESPONSE EXACTLY LIKE THIS:
TITLE: <issue title>
BODY:
<markdown body>
LABELS: <comma separated labels, may be empty>

Do not include any other text or explanations.`

// IssueDraftPrompt renders the request for an issue draft. tmpl may be nil.
func IssueDraftPrompt(request string, tmpl *models.IssueTemplate, locale string) (string, error) {
	return renderWithFuncs("issue", issueTemplate, map[string]interface{}{
		"Request":  strings.TrimSpace(request),
		"Template": tmpl,
		"Locale":   orDefault(locale, defaultLocale),
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
