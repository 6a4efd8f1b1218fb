package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt implements the domain.UserInteraction interface.
type Prompt struct{}

// NewPrompt creates a new user interaction prompt handler.
func NewPrompt() *Prompt {
	return &Prompt{}
}

// Confirm prompts the user for a yes/no answer.
func (p *Prompt) Confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("cannot prompt for confirmation in non-interactive environment: %s", prompt)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("failed to read user input: %w", err)
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response == "y" || response == "yes" {
			return true, nil
		}
		if response == "n" || response == "no" || response == "" {
			return false, nil
		}
	}
}
