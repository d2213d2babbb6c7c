package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jfmyers9/play/internal/catalog"
	"github.com/jfmyers9/play/internal/session"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
)

const rule = "-----------------------------------------------------"

// KeyReader reads a single keystroke without waiting for Enter
type KeyReader interface {
	ReadKey() (rune, error)
}

// LineReader reads a line of text
type LineReader interface {
	ReadLine() (string, error)
}

// Outcome is how a menu session ended
type Outcome int

const (
	OutcomePlay Outcome = iota // The list is ready for the player
	OutcomeQuit                // The user quit
)

// Choice is one key accepted by a prompt
type Choice struct {
	Key   rune
	Label string
}

// Console renders the result list and drives a session from keystrokes
type Console struct {
	keys     KeyReader
	lines    LineReader
	out      io.Writer
	width    int
	describe func(catalog.Entry) string
	logger   zerolog.Logger

	keyColor *color.Color
}

// Option configures a Console
type Option func(*Console)

// WithWidth truncates listed entries to width display columns (0 disables)
func WithWidth(width int) Option {
	return func(c *Console) {
		c.width = width
	}
}

// WithDescriber sets how entries are shown in the list and filter prompts
func WithDescriber(describe func(catalog.Entry) string) Option {
	return func(c *Console) {
		if describe != nil {
			c.describe = describe
		}
	}
}

// WithLogger sets the console logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Console) {
		c.logger = logger.With().Str("component", "menu").Logger()
	}
}

// New creates a Console. Colors follow fatih/color's terminal detection.
func New(keys KeyReader, lines LineReader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		keys:     keys,
		lines:    lines,
		out:      out,
		describe: func(e catalog.Entry) string { return e.Rel },
		logger:   zerolog.Nop(),
		keyColor: color.New(color.FgCyan, color.Bold),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu until the user plays or quits
func (c *Console) Run(s *session.Session) (Outcome, error) {
	for !s.Ready() {
		c.Display(s.Files())

		valid := s.ValidActions()
		key, err := c.Prompt(actionChoices(valid))
		if err != nil {
			return OutcomeQuit, err
		}

		action, _ := session.ParseAction(key, valid)
		c.logger.Debug().Str("action", action.Label()).Msg("Selected")

		switch action {
		case session.ActionPlay:
			err = s.Play()
		case session.ActionFilter:
			err = s.Filter(c.decide)
		case session.ActionMix:
			err = s.Mix()
		case session.ActionWiden:
			err = s.Widen()
		case session.ActionNarrow:
			err = s.Narrow()
		case session.ActionSearch:
			var pattern catalog.Pattern
			pattern, err = c.PromptPattern()
			if err == nil {
				err = s.Search(pattern)
			}
		case session.ActionQuit:
			fmt.Fprintln(c.out, "bye")
			return OutcomeQuit, nil
		}
		if err != nil {
			return OutcomeQuit, err
		}
	}

	return OutcomePlay, nil
}

// PromptPattern asks for search terms until at least one is given
func (c *Console) PromptPattern() (catalog.Pattern, error) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, "Search pattern > ")

		line, err := c.lines.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read search pattern: %w", err)
		}

		pattern, err := catalog.NewPattern(line)
		if errors.Is(err, catalog.ErrEmptyPattern) {
			continue
		}
		return pattern, err
	}
}

// Prompt shows the choice labels and reads keys until one of them is pressed.
// The returned key is lower case.
func (c *Console) Prompt(choices []Choice) (rune, error) {
	labels := make([]string, len(choices))
	for i, ch := range choices {
		labels[i] = c.highlight(ch)
	}
	prompt := strings.Join(labels, " ") + " > "

	fmt.Fprint(c.out, prompt)
	for {
		key, err := c.keys.ReadKey()
		if err != nil {
			fmt.Fprintln(c.out)
			return 0, err
		}

		key = unicode.ToLower(key)
		for _, ch := range choices {
			if ch.Key == key {
				fmt.Fprintln(c.out)
				return key, nil
			}
		}

		c.logger.Debug().Str("key", string(key)).Msg("Ignoring invalid key")
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, prompt)
	}
}

// Display prints the numbered result list between rules
func (c *Console) Display(files []catalog.Entry) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, rule)

	var total int64
	digits := len(fmt.Sprint(len(files)))
	for i, f := range files {
		prefix := fmt.Sprintf("%*d. ", digits, i+1)
		fmt.Fprintln(c.out, prefix+c.fit(c.describe(f), runewidth.StringWidth(prefix)))
		total += f.Size
	}

	fmt.Fprintln(c.out, rule)
	if len(files) > 0 {
		fmt.Fprintf(c.out, "%s, %s\n", plural(len(files), "file"), humanize.Bytes(uint64(total)))
	}
	fmt.Fprintln(c.out)
}

// decide asks whether to keep one entry during a filter pass
func (c *Console) decide(e catalog.Entry) (session.Decision, error) {
	key, err := c.Prompt([]Choice{
		{Key: 'y', Label: c.describe(e) + " (y)ES"},
		{Key: 'n', Label: "(n)O"},
		{Key: 'q', Label: "(q)UIT"},
	})
	if err != nil {
		return session.DecisionQuit, err
	}

	switch key {
	case 'y':
		return session.DecisionYes, nil
	case 'n':
		return session.DecisionNo, nil
	default:
		return session.DecisionQuit, nil
	}
}

// highlight colors the "(k)" part of a label
func (c *Console) highlight(ch Choice) string {
	marker := "(" + string(ch.Key) + ")"
	i := strings.Index(ch.Label, marker)
	if i < 0 {
		return ch.Label
	}
	return ch.Label[:i] + c.keyColor.Sprint(marker) + ch.Label[i+len(marker):]
}

// fit truncates text so that it fits the console width after indent columns
func (c *Console) fit(text string, indent int) string {
	if c.width <= 0 {
		return text
	}
	avail := c.width - indent
	if avail <= 0 || runewidth.StringWidth(text) <= avail {
		return text
	}
	return runewidth.Truncate(text, avail, "...")
}

func actionChoices(actions []session.Action) []Choice {
	choices := make([]Choice, len(actions))
	for i, a := range actions {
		choices[i] = Choice{Key: a.Key(), Label: a.Label()}
	}
	return choices
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
