package vindex

import (
	"os"

	"github.com/jimyag/vindex/pkg/volumes"
)

func withDefaults(opts Options) Options {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.ConsoleOutput == nil {
		opts.ConsoleOutput = os.Stdout
	}
	if opts.Lister == nil {
		opts.Lister = volumes.New()
	}
	return opts
}
