package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, errAlreadyReported) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if errors.Is(err, gitrepo.ErrNotRepo) {
		return 65
	}
	return 1
}
