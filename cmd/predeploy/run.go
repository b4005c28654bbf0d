package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/predeploy/internal/config"
	"github.com/alexisbeaulieu97/predeploy/internal/logger"
	"github.com/alexisbeaulieu97/predeploy/internal/revision"
	"github.com/alexisbeaulieu97/predeploy/internal/runner"
	"github.com/alexisbeaulieu97/predeploy/internal/sequencer"
	"github.com/alexisbeaulieu97/predeploy/internal/tui"
)

type runOptions struct {
	ConfigPath string
	WorkDir    string
	DryRun     bool
	Verbose    bool
	Plain      bool
	LogFormat  string
}

var (
	runCmdRunner  = runSequence
	newStepRunner = func(stdin io.Reader, stdout, stderr io.Writer) runner.Runner {
		r := runner.NewExecRunner(stdout, stderr)
		r.Stdin = stdin
		return r
	}
	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

func runSequence(ctx context.Context, opts runOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	workDir, err := resolveWorkDir(opts.WorkDir, cfg.Settings.WorkDir)
	if err != nil {
		return err
	}

	dryRun := opts.DryRun || cfg.Settings.DryRun
	verbose := opts.Verbose || cfg.Settings.Verbose
	interactive := !opts.Plain && isTerminal(out)

	level := "info"
	if verbose {
		level = "debug"
	}

	// The interactive view owns the terminal; logs are replayed after it exits.
	var logBuf bytes.Buffer
	logOut := errOut
	if interactive {
		logOut = &logBuf
	}

	log, err := logger.New(logger.Options{Level: level, Format: opts.LogFormat, Writer: logOut})
	if err != nil {
		return err
	}
	log = log.WithFields(map[string]any{"sequence": cfg.Name, "workdir": workDir})
	logRevision(log, workDir)

	// Children share the terminal in plain mode so management commands can prompt.
	var stepIn io.Reader = os.Stdin
	stepOut, stepErr := out, errOut
	if interactive {
		stepIn, stepOut, stepErr = nil, nil, nil
	}

	seqOpts := sequencer.Options{
		Steps:   cfg.EnabledSteps(),
		Runner:  newStepRunner(stepIn, stepOut, stepErr),
		Logger:  log,
		WorkDir: workDir,
		DryRun:  dryRun,
	}

	if !interactive {
		seqOpts.Reporter = tui.NewLineReporter(out)
		seq, err := sequencer.New(seqOpts)
		if err != nil {
			return err
		}
		_, err = seq.Run(ctx)
		return err
	}

	program := tea.NewProgram(
		tui.NewModel(cfg.Name, cfg.Refs()),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	seqOpts.Reporter = tui.NewProgramReporter(program)

	seq, err := sequencer.New(seqOpts)
	if err != nil {
		return err
	}

	var programErr error
	done := make(chan struct{})
	go func() {
		_, programErr = program.Run()
		close(done)
	}()

	_, runErr := seq.Run(ctx)
	program.Send(tui.DoneMsg{Err: runErr})
	<-done

	_, _ = io.Copy(errOut, &logBuf)

	if runErr != nil {
		return runErr
	}
	return programErr
}

func logRevision(log *logger.Logger, workDir string) {
	info, err := revision.Detect(workDir)
	switch {
	case err == nil:
		log.WithFields(info.Fields()).Info("deploying revision")
	case errors.Is(err, revision.ErrNotRepository):
		log.Debug("workdir is not a git repository")
	default:
		log.Warn("could not resolve revision: " + err.Error())
	}
}
