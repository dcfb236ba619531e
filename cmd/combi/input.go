package main

import (
	"fmt"
	"io"
	"os"
)

// readInput returns the contents of the named file, or of stdin when no
// file is given.
func readInput(stdin io.Reader, args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return string(data), args[0], nil
}
