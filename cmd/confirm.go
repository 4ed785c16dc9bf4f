package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"zeiterfassung/gateway"
)

var (
	promptInput  io.Reader = os.Stdin
	promptOutput io.Writer = os.Stdout
)

// confirmPrompt writes prompt and reports whether the answer is exactly "Y".
func confirmPrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "%s Type Y to confirm: ", prompt); err != nil {
		return false, fmt.Errorf("write confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

// promptConfirmer asks on the terminal. Read failures count as "no".
func promptConfirmer(input io.Reader, output io.Writer) gateway.Confirmer {
	return gateway.ConfirmFunc(func(prompt string) bool {
		confirmed, err := confirmPrompt(input, output, prompt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return false
		}
		return confirmed
	})
}
