package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/jimmicro/version"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: vindex <command> [flags]

Commands:
  volumes              list attached volumes and what the index knows about them
  scan [LETTER...]     index the given volumes, asks interactively when no letter is given
  combine              rebuild the deduplicated output mapping
  report               print duplicate statistics without touching the output mapping
  serve                run the read-only HTTP query server
  init                 write a default config file

Run 'vindex <command> --help' for the flags of a command.
`

var (
	// errUsage 命令行参数错误，已经输出了用法
	errUsage = errors.New("usage")
	// errHelp 已经输出了帮助
	errHelp = errors.New("help")
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, errHelp):
			return
		case errors.Is(err, errUsage):
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "volumes":
		return runVolumes(rest)
	case "scan":
		return runScan(rest)
	case "combine":
		return runCombine(rest)
	case "report":
		return runReport(rest)
	case "serve":
		return runServe(rest)
	case "init":
		return runInit(rest)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", name, usage)
		return errUsage
	}
}
