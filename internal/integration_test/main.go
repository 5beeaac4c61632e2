// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/miu200521358/mu_fbik/pkg/adapter/io_config"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_lookup"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_fbik/pkg/adapter/io_pose"
	"github.com/miu200521358/mu_fbik/pkg/usecase/minteractor"
	"github.com/rodaine/table"
)

const (
	batchOutputDirMode = 0o755
	batchStatusOk      = "succeeded"
	batchStatusDryRun  = "dry_run"
	batchStatusMissing = "skipped_missing"
	batchStatusFailed  = "failed"
)

// batchConfig はバッチ解決の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	ConfigPath string
	Frames     int
	DryRun     bool
	InputPaths []string
}

// solveEntry は1モデル分の解決入力情報を表す。
type solveEntry struct {
	Index      int
	SourcePath string
	ModelName  string
	OutputPath string
}

// solveResult は1モデル分の解決結果を表す。
type solveResult struct {
	Entry     solveEntry
	Status    string
	Duration  time.Duration
	Err       error
	Warnings  []string
	StageInfo string
}

// solveProgressCollector は Solve の進捗イベントを収集する。
type solveProgressCollector struct {
	eventCounts map[minteractor.SolveProgressEventType]int
}

// main はVRMモデル群を並行に読み込み、全身IKの解決を一括で実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括解決を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildSolveEntries(config.OutputRoot, config.InputPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "解決対象モデルがありません")
		return 2
	}

	results := executeBatchSolve(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == batchStatusFailed {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "解決結果の出力ルートディレクトリ")
	configPath := flag.String("config", "", "解決設定ファイル")
	frames := flag.Int("frames", 30, "モデルごとのフレーム数")
	dryRun := flag.Bool("dry-run", false, "実解決せず、入力解決と出力先計画のみ表示する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	if *frames < 1 {
		return batchConfig{}, fmt.Errorf("frames は1以上を指定してください: %d", *frames)
	}
	inputPaths, err := expandInputPaths(flag.Args())
	if err != nil {
		return batchConfig{}, err
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		ConfigPath: *configPath,
		Frames:     *frames,
		DryRun:     *dryRun,
		InputPaths: inputPaths,
	}, nil
}

// expandInputPaths は引数のglobを展開する。
func expandInputPaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		normalized := normalizeInputPath(arg)
		if normalized == "" {
			continue
		}
		matches, err := filepath.Glob(normalized)
		if err != nil {
			return nil, fmt.Errorf("入力パターンが不正です: %s: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, normalized)
			continue
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildSolveEntries は入力パス一覧から解決対象エントリを生成する。
func buildSolveEntries(outputRoot string, inputPaths []string) []solveEntry {
	entries := make([]solveEntry, 0, len(inputPaths))
	for i, path := range inputPaths {
		modelName := resolveModelName(path)
		fileName := fmt.Sprintf("%03d_%s.json", i+1, sanitizePathComponent(modelName))
		entries = append(entries, solveEntry{
			Index:      i + 1,
			SourcePath: path,
			ModelName:  modelName,
			OutputPath: filepath.Join(outputRoot, fileName),
		})
	}
	return entries
}

// executeBatchSolve はモデルごとに goroutine を起こして解決し、入力順の結果を返す。
func executeBatchSolve(config batchConfig, entries []solveEntry) []solveResult {
	results := make([]solveResult, len(entries))
	if !config.DryRun {
		if err := os.MkdirAll(config.OutputRoot, batchOutputDirMode); err != nil {
			for i, entry := range entries {
				results[i] = solveResult{Entry: entry, Status: batchStatusFailed, Err: err}
			}
			return results
		}
	}

	total := len(entries)
	var wg sync.WaitGroup
	var printMu sync.Mutex
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry solveEntry) {
			defer wg.Done()
			result := solveModelEntry(config, entry)
			results[i] = result

			printMu.Lock()
			defer printMu.Unlock()
			switch result.Status {
			case batchStatusOk:
				fmt.Printf("[%d/%d] 解決成功: model=%s output=%s elapsed=%s warnings=%s\n",
					entry.Index, total, entry.ModelName, entry.OutputPath, result.Duration.Round(time.Millisecond), strings.Join(result.Warnings, ","))
				fmt.Printf("[%d/%d] Solve進捗: %s\n", entry.Index, total, result.StageInfo)
			case batchStatusDryRun:
				fmt.Printf("[%d/%d] DRY-RUN: model=%s input=%s output=%s\n", entry.Index, total, entry.ModelName, entry.SourcePath, entry.OutputPath)
			case batchStatusMissing:
				fmt.Printf("[%d/%d] 入力不足でスキップ: model=%s input=%s reason=%v\n", entry.Index, total, entry.ModelName, entry.SourcePath, result.Err)
			default:
				fmt.Printf("[%d/%d] 解決失敗: model=%s reason=%v\n", entry.Index, total, entry.ModelName, result.Err)
			}
		}(i, entry)
	}
	wg.Wait()
	return results
}

// solveModelEntry は1モデル分の解決を実行する。
func solveModelEntry(config batchConfig, entry solveEntry) solveResult {
	result := solveResult{
		Entry:  entry,
		Status: batchStatusFailed,
	}
	if _, err := os.Stat(entry.SourcePath); err != nil {
		result.Status = batchStatusMissing
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = batchStatusDryRun
		return result
	}

	cfg, err := io_config.NewConfigRepository().Load(config.ConfigPath)
	if err != nil {
		result.Err = err
		return result
	}
	provider, err := io_config.NewObjectiveProvider(cfg)
	if err != nil {
		result.Err = err
		return result
	}
	usecase := minteractor.NewFullBodyIkUsecase(minteractor.FullBodyIkUsecaseDeps{
		SkeletonReader: vrm.NewVrmRepository(),
		LookupReader:   io_lookup.NewLookupRepository(),
		PoseWriter:     io_pose.NewPoseRepository(),
	})

	startedAt := time.Now()
	collector := newSolveProgressCollector()
	solved, err := usecase.Solve(minteractor.SolveRequest{
		InputPath:        entry.SourcePath,
		OutputPath:       entry.OutputPath,
		Frames:           config.Frames,
		Provider:         provider,
		ProgressReporter: collector,
	})
	if err != nil {
		result.Err = fmt.Errorf("Solveに失敗しました: %w", err)
		return result
	}

	result.Status = batchStatusOk
	result.Duration = time.Since(startedAt)
	result.Warnings = solved.Warnings
	result.StageInfo = collector.Summary()
	return result
}

// printBatchSummary は解決結果を表と集計で標準出力へ表示する。
func printBatchSummary(results []solveResult) {
	tbl := table.New("No", "Model", "Status", "Elapsed", "Warnings")
	tbl.WithWriter(os.Stdout)
	counts := map[string]int{}
	for _, result := range results {
		counts[result.Status]++
		tbl.AddRow(
			result.Entry.Index,
			result.Entry.ModelName,
			result.Status,
			result.Duration.Round(time.Millisecond),
			strings.Join(result.Warnings, ","),
		)
	}
	tbl.Print()
	fmt.Printf(
		"バッチ解決サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		counts[batchStatusOk],
		counts[batchStatusFailed],
		counts[batchStatusMissing],
		counts[batchStatusDryRun],
	)
}

// resolveModelName は入力パスから拡張子を除いたモデル名を返す。
func resolveModelName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "model"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "model"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "model"
	}
	return replaced
}

// newSolveProgressCollector は Solve 進捗収集器を生成する。
func newSolveProgressCollector() *solveProgressCollector {
	return &solveProgressCollector{
		eventCounts: map[minteractor.SolveProgressEventType]int{},
	}
}

// ReportSolveProgress は Solve の進捗イベントを収集する。
func (collector *solveProgressCollector) ReportSolveProgress(event minteractor.SolveProgressEvent) {
	if collector == nil {
		return
	}
	collector.eventCounts[event.Type]++
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *solveProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d frames=%d stages=%s",
		len(collector.eventCounts),
		collector.eventCounts[minteractor.SolveProgressEventTypeFrameSolved],
		strings.Join(types, ","),
	)
}
