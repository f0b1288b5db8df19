package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jimyag/vindex/internal/vindex"
	"github.com/jimyag/vindex/internal/vindex/config"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/service"
	"github.com/jimyag/vindex/pkg/console"
	"github.com/jimyag/vindex/pkg/volumes"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func runVolumes(args []string) error {
	cmd := newCommand("volumes", "")
	if err := cmd.parse(args); err != nil {
		return err
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := app.Context(context.Background())

	attached, err := app.Volumes.ListAttached(ctx)
	switch {
	case errors.Is(err, service.ErrNoVolumes):
		app.Console.WriteLine("No volumes are available")
	case err != nil:
		return err
	default:
		app.Console.WriteLine("Available volumes:")
		printVolumes(app, attached)
	}

	indexed, err := app.Volumes.ListIndexed(ctx)
	if err != nil {
		return err
	}
	if len(indexed) == 0 {
		return nil
	}
	app.Console.WriteLine("")
	app.Console.WriteLine("Indexed volumes:")
	for _, v := range indexed {
		app.Console.WriteLine("  %s - %s (%s) drive %q: %s/%s directories complete, %s files",
			v.MountLetter, v.Label, v.Filesystem, v.DriveName,
			humanize.Comma(v.IndexedDirectories), humanize.Comma(v.Directories), humanize.Comma(v.Files))
	}
	return nil
}

func runScan(args []string) error {
	cmd := newCommand("scan", " [LETTER...]")
	driveName := cmd.flags.String("drive-name", "", "drive name for volumes the index does not know yet")
	if err := cmd.parse(args); err != nil {
		return err
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := app.Context(context.Background())
	logger := zerolog.Ctx(ctx)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	in := bufio.NewReader(os.Stdin)

	letters := cmd.flags.Args()
	if len(letters) == 0 {
		if !interactive {
			return service.ErrNothingSelected
		}
		letters, err = askLetters(ctx, app, in)
		if err != nil {
			return reportSelectionError(app, err)
		}
	}

	selected, err := app.Volumes.Select(ctx, letters)
	if err != nil {
		return reportSelectionError(app, err)
	}

	resolution, err := app.Volumes.ResolveDriveName(ctx, selected)
	if err != nil {
		return err
	}
	name := resolution.Name
	switch {
	case resolution.Known:
	case *driveName != "":
		name = *driveName
	case interactive:
		name, err = app.Console.Prompt(in, "Enter a drive name to identify volumes (%s): ",
			strings.Join(resolution.Unnamed, ", "))
		if err != nil {
			return err
		}
	default:
		logger.Warn().Strs("letters", resolution.Unnamed).Msg("No drive name given for unnamed volumes")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			app.Console.WriteLine("Stop signal received. Stopping gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = app.Scanner.ScanVolumes(ctx, &entity.ScanRequest{
		Letters:   letters,
		DriveName: name,
	})
	return err
}

// askLetters 列出可用的卷并询问要扫描哪些
func askLetters(ctx context.Context, app *vindex.App, in *bufio.Reader) ([]string, error) {
	attached, err := app.Volumes.ListAttached(ctx)
	if err != nil {
		return nil, err
	}

	app.Console.Clear()
	app.Console.WriteLine("-== FILES SCANNER ==-")
	app.Console.WriteLine("Available volumes:")
	printVolumes(app, attached)

	choices := make([]string, 0, len(attached))
	for _, v := range attached {
		choices = append(choices, v.MountLetter)
	}
	answer, err := app.Console.Prompt(in, "Enter volume letters to index (%s): ", strings.Join(choices, ", "))
	if err != nil {
		return nil, err
	}
	return strings.Fields(answer), nil
}

func printVolumes(app *vindex.App, list []volumes.Volume) {
	for _, v := range list {
		app.Console.WriteLine("  %s - %s (%s)", v.MountLetter, v.Label, v.Filesystem)
	}
}

// reportSelectionError 把选择卷时的配置错误输出给操作者
func reportSelectionError(app *vindex.App, err error) error {
	switch {
	case errors.Is(err, service.ErrNoVolumes):
		app.Console.WriteLine("No volumes are available")
	case errors.Is(err, service.ErrNothingSelected):
		app.Console.WriteLine("Nothing is selected")
	case errors.Is(err, service.ErrUnknownVolume):
		app.Console.WriteLine("%s", err)
	}
	return err
}

func runCombine(args []string) error {
	cmd := newCommand("combine", "")
	cmd.flags.Int("top", 0, "number of duplicated paths in the summary")
	cmd.flags.String("log-file", "", "file that receives every duplicate group")
	if err := cmd.parse(args); err != nil {
		return err
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = app.Combine.BuildOutputMapping(app.Context(context.Background()))
	return err
}

func runReport(args []string) error {
	cmd := newCommand("report", "")
	cmd.flags.Int("top", 0, "number of duplicated paths in the summary")
	if err := cmd.parse(args); err != nil {
		return err
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.Combine.Summarize(app.Context(context.Background()), &entity.DescribeReportRequest{})
	if err != nil {
		return err
	}
	app.Combine.PrintSummary(resp.Report, app.Config().Combine.TopN)
	return nil
}

func runServe(args []string) error {
	cmd := newCommand("serve", "")
	cmd.flags.String("address", "", "listen address of the query server")
	if err := cmd.parse(args); err != nil {
		return err
	}

	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Serve(context.Background())
}

func runInit(args []string) error {
	cmd := newCommand("init", "")
	force := cmd.flags.Bool("force", false, "overwrite an existing config file")
	if err := cmd.parse(args); err != nil {
		return err
	}

	path := cmd.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return writeConfig(console.New(os.Stdout), path, *force)
}

// writeConfig 写出默认配置文件并告知操作者
func writeConfig(out *console.Console, path string, force bool) error {
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	out.WriteLine("Config written to %s", path)
	return nil
}
