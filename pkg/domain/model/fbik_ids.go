// 指示: miu200521358
package model

const (
	// FbikWarningNotTStance は参照姿勢がTスタンスでない警告。
	FbikWarningNotTStance = "FbikWarningNotTStance"
	// FbikWarningRequiredBoneMissing は必須ボーン欠落警告。
	FbikWarningRequiredBoneMissing = "FbikWarningRequiredBoneMissing"
	// FbikWarningLookupTableIgnored はベンド方向テーブル不採用警告。
	FbikWarningLookupTableIgnored = "FbikWarningLookupTableIgnored"
	// FbikWarningNonUniformScale は非一様スケール警告。
	FbikWarningNonUniformScale = "FbikWarningNonUniformScale"
)

const (
	// TraceSpineChain は背骨チェーンのトレースラベル。
	TraceSpineChain = "spine.chain"
	// TraceSpinePrime は背骨初期推定のトレースラベル。
	TraceSpinePrime = "spine.prime"
	// TraceSpineRealign は頭位置補正のトレースラベル。
	TraceSpineRealign = "spine.realign"
	// TraceArmBendDirection は腕の曲げ方向のトレースラベル。
	TraceArmBendDirection = "arm.bendDirection"
	// TraceArmChain は腕チェーンのトレースラベル。
	TraceArmChain = "arm.chain"
	// TraceShoulder は肩回転のトレースラベル。
	TraceShoulder = "arm.shoulder"
	// TraceLegBendDirection は脚の曲げ方向のトレースラベル。
	TraceLegBendDirection = "leg.bendDirection"
	// TraceLegChain は脚チェーンのトレースラベル。
	TraceLegChain = "leg.chain"
	// TraceSelfParenting は自己親子付けのトレースラベル。
	TraceSelfParenting = "hand.selfParenting"
)

// RequiredHumanBones は解決に必須のボーンを返す。
func RequiredHumanBones() []HumanBone {
	return []HumanBone{
		HIPS, SPINE, CHEST, NECK, HEAD,
		LEFT_UPPER_ARM, LEFT_LOWER_ARM, LEFT_HAND,
		RIGHT_UPPER_ARM, RIGHT_LOWER_ARM, RIGHT_HAND,
		LEFT_UPPER_LEG, LEFT_LOWER_LEG, LEFT_FOOT,
		RIGHT_UPPER_LEG, RIGHT_LOWER_LEG, RIGHT_FOOT,
	}
}
