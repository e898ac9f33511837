package regex

import "regexp"

var (
	// Commit message patterns
	ConventionalCommit = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\(([^)]+)\))?(!)?:\s*(.+)`)
	CommitTypePrefix   = regexp.MustCompile(`^([A-Za-z]+)(\([^)]*\))?!?:`)
	ReasoningCommit    = regexp.MustCompile(`(?i)\b(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)\b\s*:?\s+[^.\n]+`)
	SentenceSplit      = regexp.MustCompile(`[.!?]`)
	Whitespace         = regexp.MustCompile(`\s+`)

	// Sanitizer patterns
	WrappingQuote    = regexp.MustCompile(`^["']|["']\.?$`)
	LineBreaks       = regexp.MustCompile(`[\n\r]`)
	TrailingPeriod   = regexp.MustCompile(`(\w)\.$`)
	ThinkBlock       = regexp.MustCompile(`(?s)^\s*<think>(.*?)</think>`)
	ThinkOpenNoClose = regexp.MustCompile(`(?s)^\s*<think>(.*)$`)

	// Tagged model output
	PRTitle     = regexp.MustCompile(`(?s)TITLE:\s*(.+?)(?:\n|BODY:)`)
	PRBody      = regexp.MustCompile(`BODY:\s*([\s\S]+)`)
	IssueBody   = regexp.MustCompile(`BODY:\s*([\s\S]+?)(?:\nLABELS:|$)`)
	IssueLabels = regexp.MustCompile(`LABELS:\s*(.+)`)

	// git diff --shortstat
	ShortstatFiles      = regexp.MustCompile(`(\d+) files? changed`)
	ShortstatInsertions = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	ShortstatDeletions  = regexp.MustCompile(`(\d+) deletions?\(-\)`)

	// Config validation
	Locale   = regexp.MustCompile(`(?i)^[a-z-]+$`)
	Digits   = regexp.MustCompile(`^\d+$`)
	ProxyURL = regexp.MustCompile(`^https?://`)

	// GitHub linkage patterns
	GitHubClosedLink = regexp.MustCompile(`(?i)(?:close[sd]?|fix(?:e[sd])?|resolve[sd]?)\s+#(\d+)`)

	// Git and Repo patterns
	BranchSeparators = regexp.MustCompile(`[-/]+`)
	SSHRepo          = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	HTTPSRepo        = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)

	// Issue template frontmatter
	Frontmatter = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n?(.*)$`)
)
