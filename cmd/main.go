// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_config"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_lookup"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_pose"
	"github.com/miu200521358/mu_fbik/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_fbik/pkg/shared/logging"
	"github.com/miu200521358/mu_fbik/pkg/usecase/minteractor"
	"github.com/pkg/errors"
)

const (
	defaultFrames     = 1
	defaultFps        = 30.0
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// options はCLI引数を保持する。
type options struct {
	inputPath       string
	configPath      string
	frames          int
	fps             float64
	outputPath      string
	lookupLeftPath  string
	lookupRightPath string
	logPath         string
	verbose         bool
}

// main はVRMスケルトンの全身IKを解き、姿勢をJSONへ保存する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	logger := newLogger(opts, errOut)
	defer logger.Close()
	logging.SetDefaultLogger(logger)

	cfg, err := io_config.NewConfigRepository().Load(opts.configPath)
	if err != nil {
		return errors.Wrap(err, messages.MessageConfigFailed)
	}
	provider, err := io_config.NewObjectiveProvider(cfg)
	if err != nil {
		return errors.Wrap(err, messages.MessageConfigFailed)
	}

	uc := minteractor.NewFullBodyIkUsecase(minteractor.FullBodyIkUsecaseDeps{
		SkeletonReader: vrm.NewVrmRepository(),
		LookupReader:   io_lookup.NewLookupRepository(),
		PoseWriter:     io_pose.NewPoseRepository(),
	})

	fmt.Fprintf(out, messages.LogSolveStart+"\n", messages.AppName, opts.inputPath, opts.frames)
	reporter := newBarReporter(errOut)
	result, err := uc.Solve(minteractor.SolveRequest{
		InputPath:        opts.inputPath,
		OutputPath:       opts.outputPath,
		Frames:           opts.frames,
		Fps:              opts.fps,
		Provider:         provider,
		LookupLeftPath:   opts.lookupLeftPath,
		LookupRightPath:  opts.lookupRightPath,
		ProgressReporter: reporter,
	})
	reporter.finish()
	if err != nil {
		return errors.Wrap(err, messages.MessageSolveFailed)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(out, messages.MessageWarningPrinted+"\n", messages.AppName, warning)
	}
	fmt.Fprintf(out, messages.LogSolveComplete+"\n", messages.AppName, result.OutputPath)
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet(messages.AppName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	in := fs.String("in", "", messages.FlagInput)
	configPath := fs.String("config", "", messages.FlagConfig)
	frames := fs.Int("frames", defaultFrames, messages.FlagFrames)
	fps := fs.Float64("fps", defaultFps, messages.FlagFps)
	out := fs.String("out", "", messages.FlagOutput)
	lookupLeft := fs.String("lookup-left", "", messages.FlagLookupLeft)
	lookupRight := fs.String("lookup-right", "", messages.FlagLookupRight)
	logPath := fs.String("log", "", messages.FlagLog)
	verbose := fs.Bool("v", false, messages.FlagVerbose)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *out == "" && fs.NArg() > 1 {
		*out = fs.Arg(1)
	}
	if *in == "" {
		return options{}, errors.New(messages.MessageInputRequired)
	}
	if !strings.EqualFold(filepath.Ext(*in), ".vrm") {
		return options{}, errors.Errorf(messages.MessageInputExtVrm, *in)
	}
	if *out != "" && !strings.EqualFold(filepath.Ext(*out), ".json") {
		return options{}, errors.Errorf(messages.MessageOutputExtJSON, *out)
	}
	if *frames < 1 {
		return options{}, errors.Errorf(messages.MessageFramesInvalid, *frames)
	}
	if *fps <= 0 {
		return options{}, errors.Errorf(messages.MessageFpsInvalid, *fps)
	}

	return options{
		inputPath:       *in,
		configPath:      *configPath,
		frames:          *frames,
		fps:             *fps,
		outputPath:      *out,
		lookupLeftPath:  *lookupLeft,
		lookupRightPath: *lookupRight,
		logPath:         *logPath,
		verbose:         *verbose,
	}, nil
}

// newLogger はCLI用のロガーを生成する。ログパスがあればローテーションファイルへも書く。
func newLogger(opts options, errOut io.Writer) *logging.Logger {
	var logger *logging.Logger
	if opts.logPath != "" {
		logger = logging.NewFileLogger(errOut, logging.FileSinkOptions{
			Path:       opts.logPath,
			MaxSizeMB:  logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAgeDays: logFileMaxAgeDays,
		})
	} else {
		logger = logging.NewLogger(errOut)
	}
	if opts.verbose {
		logger.SetLevel(logging.LOG_LEVEL_DEBUG)
	}
	return logger
}

// barReporter はフレーム解決の進捗をプログレスバーへ出す。
type barReporter struct {
	out io.Writer
	bar *pb.ProgressBar
}

func newBarReporter(out io.Writer) *barReporter {
	return &barReporter{out: out}
}

// ReportSolveProgress はフレーム数確定時にバーを開始し、フレームごとに進める。
func (r *barReporter) ReportSolveProgress(event minteractor.SolveProgressEvent) {
	switch event.Type {
	case minteractor.SolveProgressEventTypeLookupLoaded:
		if r.bar == nil {
			r.bar = pb.New(event.FrameCount).SetWriter(r.out)
			r.bar.Start()
		}
	case minteractor.SolveProgressEventTypeFrameSolved:
		if r.bar != nil {
			r.bar.Increment()
		}
	}
}

func (r *barReporter) finish() {
	if r.bar == nil {
		return
	}
	r.bar.Finish()
	r.bar = nil
}
