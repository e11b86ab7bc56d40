package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"selector-scanner/internal/config"
	"selector-scanner/internal/entity"
	"selector-scanner/internal/output"
	"selector-scanner/internal/usecase"
	"selector-scanner/pkg/apperr"
	"selector-scanner/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errExit = errors.New("exit")

type Interface struct {
	config  *config.Config
	logger  *zap.Logger
	usecase *usecase.Service
	in      io.Reader
	out     io.Writer
	create  func(path string) (io.WriteCloser, error)
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	stopping bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
	Input   io.Reader `optional:"true"`
	Output  io.Writer `optional:"true"`
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	in, out := params.Input, params.Output
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	return &Interface{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase: params.Usecase,
		in:      in,
		out:     out,
		create:  createFile,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start runs the read-eval loop until exit, end of input or Stop.
func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for !i.isStopping() {
		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

// Stop cancels the command in flight and ends the loop.
func (i *Interface) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")
	i.cancel()

	return nil
}

func (i *Interface) isStopping() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.stopping
}

func (i *Interface) handleCommand(input string) error {
	verb, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "scan":
		return i.withArg(verb, arg, i.scanURL)
	case "shadow":
		return i.withArg(verb, arg, i.scanShadow)
	case "file":
		return i.withArg(verb, arg, i.scanFile)
	case "save":
		return i.withArg(verb, arg, i.save)
	default:
		return fmt.Errorf("unknown command %q, type help for the list", verb)
	}
}

func (i *Interface) withArg(verb, arg string, fn func(string) error) error {
	if arg == "" {
		return fmt.Errorf("usage: %s <argument>", verb)
	}

	return fn(arg)
}

func (i *Interface) scanURL(url string) error {
	fmt.Fprintf(i.out, "Scanning %s...\n", url)

	report, err := i.usecase.Scan.ScanURL(i.ctx, url)
	if err != nil {
		return err
	}

	return i.printReport(report)
}

func (i *Interface) scanFile(path string) error {
	report, err := i.usecase.Scan.ScanFile(i.ctx, path)
	if err != nil {
		return err
	}

	return i.printReport(report)
}

func (i *Interface) scanShadow(url string) error {
	fmt.Fprintf(i.out, "Scanning shadow roots of %s...\n", url)

	records, err := i.usecase.Scan.ScanShadow(i.ctx, url)
	if err != nil {
		return err
	}

	if err := output.Write(i.out, records, i.config.ScanConfig.Format); err != nil {
		return err
	}

	fmt.Fprintf(i.out, "%d interactive elements in shadow roots\n", len(records))

	return nil
}

func (i *Interface) save(path string) error {
	const op = "save"

	report := i.usecase.Scan.Last()
	if report == nil {
		return apperr.WrapErrorWithReason(op, apperr.CodeNotFound, "no_report")
	}

	f, err := i.create(path)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaPath:  path,
			apperr.MetaStage: apperr.StageOutput,
		})
	}

	format := formatFor(path, i.config.ScanConfig.Format)
	if err := output.Write(f, i.reportView(report), format); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaPath:  path,
			apperr.MetaStage: apperr.StageOutput,
		})
	}

	i.logger.Info("Report saved", zap.String(logg.Path, path), zap.String(logg.Format, format))
	fmt.Fprintf(i.out, "Saved %s report to %s\n", format, path)

	return nil
}

func (i *Interface) printReport(report *entity.ScanReport) error {
	if err := output.Write(i.out, i.reportView(report), i.config.ScanConfig.Format); err != nil {
		return err
	}

	fmt.Fprintf(i.out, "%d visible of %d elements", len(report.Elements), report.TotalElements)

	if skipped := report.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(i.out, ", %d frames skipped", len(skipped))
	}

	fmt.Fprintln(i.out)

	return nil
}

func (i *Interface) reportView(report *entity.ScanReport) *entity.ScanReport {
	if i.config.ScanConfig.IncludeHidden {
		return report.WithAll()
	}

	return report
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// formatFor picks the output format from the file extension.
func formatFor(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.FormatYAML
	case ".json":
		return config.FormatJSON
	default:
		return fallback
	}
}

func (i *Interface) printBanner() {
	banner := `
+-----------------------------------------------+
|               Selector Scanner                |
|  Stable CSS/ARIA selectors for live web pages |
+-----------------------------------------------+`
	fmt.Fprintln(i.out, banner)
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  scan <url>     - Load a page and scan it for selectors
  shadow <url>   - Scan the interactive elements inside shadow roots
  file <path>    - Scan a local HTML file
  save <path>    - Save the last report (.json or .yaml)
  help, h        - Show this help message
  exit, quit, q  - Exit the application`
	fmt.Fprintln(i.out, help)
}
