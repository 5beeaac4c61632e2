// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	AppName = "mu_fbik"

	FlagInput       = "入力VRMファイルパス"
	FlagConfig      = "解決設定ファイルパス (gcfg形式)"
	FlagFrames      = "解決するフレーム数"
	FlagFps         = "フレームレート"
	FlagOutput      = "出力JSONファイルパス"
	FlagLookupLeft  = "左腕の曲げ方向テーブル"
	FlagLookupRight = "右腕の曲げ方向テーブル"
	FlagLog         = "ログファイルパス"
	FlagVerbose     = "デバッグログを出力する"

	MessageInputRequired  = "入力VRMファイルを指定してください (-in)"
	MessageInputExtVrm    = "入力拡張子が .vrm ではありません: %s"
	MessageOutputExtJSON  = "出力拡張子が .json ではありません: %s"
	MessageFramesInvalid  = "フレーム数は1以上を指定してください: %d"
	MessageFpsInvalid     = "フレームレートは正の値を指定してください: %v"
	MessageConfigFailed   = "設定の読み込みに失敗しました"
	MessageSolveFailed    = "全身IKの解決に失敗しました"
	MessageWarningPrinted = "[%s] 警告: %s"

	LogSolveStart    = "[%s] 解決開始: %s frames=%d"
	LogSolveComplete = "[%s] 解決完了: %s"
)
