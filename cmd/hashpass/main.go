// Command hashpass prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"devninja-chat/internal/services"
)

func main() {
	fmt.Fprint(os.Stderr, "Operator password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "✗ failed to read password: %v\n", err)
		os.Exit(1)
	}

	hash, err := services.HashOperatorPassword(strings.TrimRight(line, "\r\n"))
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintf(os.Stderr, "✗ %s\n", vErr.Fields["password"])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
