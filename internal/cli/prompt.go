package cli

import (
	"errors"

	"github.com/ergochat/readline"
)

// errCancelled is returned by a Prompter when the operator presses Ctrl-C.
var errCancelled = errors.New("input cancelled")

// Prompter reads operator input one line at a time.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Close() error
}

// readlinePrompter reads from the terminal with line editing and history.
type readlinePrompter struct {
	rl *readline.Instance
}

func newReadlinePrompter() (*readlinePrompter, error) {
	rl, err := readline.NewFromConfig(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
		HistoryLimit:    200,
	})
	if err != nil {
		return nil, err
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) ReadLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errCancelled
	}
	return line, err
}

func (p *readlinePrompter) ReadPassword(prompt string) (string, error) {
	b, err := p.rl.ReadPassword(prompt)
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errCancelled
	}
	return string(b), err
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}
