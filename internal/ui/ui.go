package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/i18n"
)

const issuesURL = "https://github.com/thomas-vilte/dash/issues/new/choose"

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	DashEmoji    = "⚡"
	SuccessEmoji = Success.Sprint("✔")
	ErrorEmoji   = Error.Sprint("✖")
	WarningEmoji = Warning.Sprint("⚠")
	InfoEmoji    = Info.Sprint("ℹ")
	RocketEmoji  = Accent.Sprint("🚀")
)

// Out, ErrOut and In are the terminal streams. Tests swap them.
var (
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr
	In     io.Reader = os.Stdin
)

var activeSpinner *SmartSpinner
var suspendedSpinner *SmartSpinner

// SmartSpinner is a spinner that reports how each stage ended.
type SmartSpinner struct {
	spinner *spinner.Spinner
}

func NewSmartSpinner(initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+initialMessage),
		spinner.WithWriter(ErrOut),
	)
	return &SmartSpinner{spinner: s}
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

// Stop stops the spinner and clears the active spinner record.
func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
	if suspendedSpinner == s {
		suspendedSpinner = nil
	}
}

// StopActiveSpinner stops whatever spinner is running, so errors print on a clean line.
func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

// SuspendActiveSpinner pauses the active spinner while the user is prompted.
func SuspendActiveSpinner() {
	if activeSpinner != nil {
		suspendedSpinner = activeSpinner
		activeSpinner.spinner.Stop()
		activeSpinner = nil
	}
}

func ResumeSuspendedSpinner() {
	if suspendedSpinner != nil {
		activeSpinner = suspendedSpinner
		activeSpinner.spinner.Start()
		suspendedSpinner = nil
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Suffix = " " + msg
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(msg)
}

func (s *SmartSpinner) Warning(msg string) {
	s.Stop()
	PrintWarning(msg)
}

func PrintSuccess(msg string) {
	_, _ = fmt.Fprintf(Out, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(msg string) {
	_, _ = fmt.Fprintf(Out, "%s %s\n", ErrorEmoji, Error.Sprint(msg))
}

func PrintWarning(msg string) {
	_, _ = fmt.Fprintf(Out, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(msg string) {
	_, _ = fmt.Fprintf(Out, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(title string) {
	separator := color.New(color.FgCyan).Sprint(strings.Repeat("━", 23))
	_, _ = fmt.Fprintf(Out, "\n%s\n%s %s\n%s\n\n", separator, DashEmoji, Accent.Sprint(title), separator)
}

func PrintRule() {
	_, _ = fmt.Fprintln(Out, Dim.Sprint(strings.Repeat("─", 60)))
}

func PrintDuration(msg string, duration time.Duration) {
	durationStr := Dim.Sprintf("(%s)", duration.Round(10*time.Millisecond))
	_, _ = fmt.Fprintf(Out, "%s %s %s\n", SuccessEmoji, Success.Sprint(msg), durationStr)
}

func PrintKeyValue(key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(Out, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err for the user. Known errors get their message and
// suggestion; anything else is treated as a bug and printed with the stack.
// t may be nil, in which case English is used.
func HandleAppError(err error, t *i18n.Translations, version string) {
	if err == nil {
		return
	}
	StopActiveSpinner()

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		_, _ = fmt.Fprintln(ErrOut)
		_, _ = Error.Fprintf(ErrOut, "%s %s\n", "✖", appErr.Message)

		if appErr.Err != nil {
			_, _ = Dim.Fprintf(ErrOut, "   %s %v\n", message(t, "ui_error.details", "Details:"), appErr.Err)
		}
		if stderr, ok := appErr.Context["stderr"].(string); ok && stderr != "" {
			_, _ = Dim.Fprintf(ErrOut, "   %s\n", strings.TrimSpace(stderr))
		}

		if appErr.Suggestion != "" {
			_, _ = fmt.Fprintln(ErrOut)
			_, _ = Info.Fprint(ErrOut, message(t, "ui_error.try_suggestion", "💡 Try: "))
			for i, line := range strings.Split(appErr.Suggestion, "\n") {
				if i == 0 {
					_, _ = fmt.Fprintln(ErrOut, line)
				} else {
					_, _ = fmt.Fprintf(ErrOut, "       %s\n", line)
				}
			}
		}
		_, _ = fmt.Fprintln(ErrOut)
		return
	}

	_, _ = fmt.Fprintln(ErrOut)
	_, _ = Error.Fprintf(ErrOut, "✖ %s\n", err.Error())
	_, _ = fmt.Fprintln(ErrOut)
	// The error carries no stack of its own; this is where it was reported.
	_, _ = Dim.Fprintln(ErrOut, message(t, "ui_error.stack", "Stack trace (error handler):"))
	_, _ = Dim.Fprintln(ErrOut, string(debug.Stack()))
	_, _ = fmt.Fprintf(ErrOut, "%s %s\n", message(t, "ui_error.version", "dash version:"), version)
	_, _ = fmt.Fprintf(ErrOut, "%s\n%s\n\n", message(t, "ui_error.report_bug", "Please open a bug report with the information above:"), issuesURL)
}

func message(t *i18n.Translations, id, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.GetMessage(id, 0, nil)
}

var stdin *bufio.Reader

func reader() *bufio.Reader {
	if stdin == nil {
		stdin = bufio.NewReader(In)
	}
	return stdin
}

// ResetInput drops buffered input after In is replaced.
func ResetInput() {
	stdin = nil
}

func readLine() (string, error) {
	line, err := reader().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskConfirmation accepts y/yes and the Spanish s/si.
func AskConfirmation(question string) bool {
	_, _ = fmt.Fprintf(Out, "\n%s (y/n): ", Info.Sprint(question))
	response, err := readLine()
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == "s" || response == "si"
}

// SelectOption prints a numbered list and returns the chosen index.
// An empty answer picks the first option.
func SelectOption(question string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("no options to select from")
	}
	_, _ = fmt.Fprintf(Out, "\n%s\n", Info.Sprint(question))
	for i, opt := range options {
		_, _ = fmt.Fprintf(Out, "  %s %s\n", Accent.Sprintf("%d)", i+1), opt)
	}
	for {
		_, _ = fmt.Fprintf(Out, "%s ", Dim.Sprintf("[1-%d]:", len(options)))
		answer, err := readLine()
		if err != nil {
			return -1, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		PrintWarning(fmt.Sprintf("Enter a number between 1 and %d", len(options)))
	}
}

// PromptText shows initial and returns the typed replacement, or initial
// when the answer is empty.
func PromptText(question, initial string) (string, error) {
	_, _ = fmt.Fprintf(Out, "\n%s\n%s\n%s ", Info.Sprint(question), Dim.Sprint(initial), Dim.Sprint(">"))
	answer, err := readLine()
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return initial, nil
	}
	return answer, nil
}

// EditText round-trips text through $EDITOR (nano, then vi, when unset).
// An empty result is an error.
func EditText(initial, pattern string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.WriteString(initial); err != nil {
		return "", fmt.Errorf("error writing temp file: %w", err)
	}
	_ = tmpFile.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "nano"
		if _, err := exec.LookPath("nano"); err != nil {
			editor = "vi"
		}
	}

	args := strings.Fields(editor)
	cmd := exec.Command(args[0], append(args[1:], tmpFile.Name())...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running editor %s: %w", editor, err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("error reading edited text: %w", err)
	}

	edited := strings.TrimSpace(string(content))
	if edited == "" {
		return "", errors.New("edited text is empty")
	}
	return edited, nil
}

// RelativeTime renders t as "3d ago", "5h ago", "2m ago" or "just now".
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff >= time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return "just now"
	}
}
