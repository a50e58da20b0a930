package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tyqualters/voidtools/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	a := newApp(os.Stdin, os.Stdout, os.Stderr, log.Logger)
	os.Exit(a.execute(os.Args[1:]))
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
	getenv func(string) string
	logger zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, logger zerolog.Logger) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		getwd:  os.Getwd,
		getenv: os.Getenv,
		logger: logger,
	}
}
