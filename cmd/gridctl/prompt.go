package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
)

// stdinPromptSink implements config.PromptSink by reading a y/n answer
// from the terminal, wired in only when --interactive is set. A SIGINT
// received while waiting for an answer terminates the prompt with exit
// code 65 (spec §6: "SIGINT during interactive prompt - terminates the
// prompt with exit code 65 (EX_DATAERR)"), rather than the process's
// usual SIGINT handling.
type stdinPromptSink struct{}

func (stdinPromptSink) Confirm(question string, def bool) bool {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)

	answerCh := make(chan string, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", question, yesNoHint(def))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answerCh <- strings.TrimSpace(strings.ToLower(line))
	}()

	select {
	case <-sigCh:
		fmt.Fprintln(os.Stderr, "\ngridctl: prompt interrupted")
		os.Exit(gcerrors.ExitDataErr)
		return def
	case answer := <-answerCh:
		switch answer {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			return def
		}
	}
}

func yesNoHint(def bool) string {
	if def {
		return "Y/n"
	}
	return "y/N"
}
