// 指示: miu200521358
package model

// HumanBone は人型ボーンの識別子を表す。
type HumanBone int

const (
	// BONE_NONE は未指定ボーン。
	BONE_NONE HumanBone = -1
)

const (
	HIPS HumanBone = iota
	LEFT_UPPER_LEG
	RIGHT_UPPER_LEG
	LEFT_LOWER_LEG
	RIGHT_LOWER_LEG
	LEFT_FOOT
	RIGHT_FOOT
	SPINE
	CHEST
	NECK
	HEAD
	LEFT_SHOULDER
	RIGHT_SHOULDER
	LEFT_UPPER_ARM
	RIGHT_UPPER_ARM
	LEFT_LOWER_ARM
	RIGHT_LOWER_ARM
	LEFT_HAND
	RIGHT_HAND
	LEFT_TOES
	RIGHT_TOES
	LEFT_EYE
	RIGHT_EYE
	JAW
	LEFT_THUMB_PROXIMAL
	LEFT_THUMB_INTERMEDIATE
	LEFT_THUMB_DISTAL
	LEFT_INDEX_PROXIMAL
	LEFT_INDEX_INTERMEDIATE
	LEFT_INDEX_DISTAL
	LEFT_MIDDLE_PROXIMAL
	LEFT_MIDDLE_INTERMEDIATE
	LEFT_MIDDLE_DISTAL
	LEFT_RING_PROXIMAL
	LEFT_RING_INTERMEDIATE
	LEFT_RING_DISTAL
	LEFT_LITTLE_PROXIMAL
	LEFT_LITTLE_INTERMEDIATE
	LEFT_LITTLE_DISTAL
	RIGHT_THUMB_PROXIMAL
	RIGHT_THUMB_INTERMEDIATE
	RIGHT_THUMB_DISTAL
	RIGHT_INDEX_PROXIMAL
	RIGHT_INDEX_INTERMEDIATE
	RIGHT_INDEX_DISTAL
	RIGHT_MIDDLE_PROXIMAL
	RIGHT_MIDDLE_INTERMEDIATE
	RIGHT_MIDDLE_DISTAL
	RIGHT_RING_PROXIMAL
	RIGHT_RING_INTERMEDIATE
	RIGHT_RING_DISTAL
	RIGHT_LITTLE_PROXIMAL
	RIGHT_LITTLE_INTERMEDIATE
	RIGHT_LITTLE_DISTAL
	UPPER_CHEST

	// HUMAN_BONE_COUNT はボーン配列の長さ。
	HUMAN_BONE_COUNT int = iota
)

// humanBoneNames はVRMヒューマノイド名を保持する。
var humanBoneNames = [HUMAN_BONE_COUNT]string{
	HIPS:                      "hips",
	LEFT_UPPER_LEG:            "leftUpperLeg",
	RIGHT_UPPER_LEG:           "rightUpperLeg",
	LEFT_LOWER_LEG:            "leftLowerLeg",
	RIGHT_LOWER_LEG:           "rightLowerLeg",
	LEFT_FOOT:                 "leftFoot",
	RIGHT_FOOT:                "rightFoot",
	SPINE:                     "spine",
	CHEST:                     "chest",
	NECK:                      "neck",
	HEAD:                      "head",
	LEFT_SHOULDER:             "leftShoulder",
	RIGHT_SHOULDER:            "rightShoulder",
	LEFT_UPPER_ARM:            "leftUpperArm",
	RIGHT_UPPER_ARM:           "rightUpperArm",
	LEFT_LOWER_ARM:            "leftLowerArm",
	RIGHT_LOWER_ARM:           "rightLowerArm",
	LEFT_HAND:                 "leftHand",
	RIGHT_HAND:                "rightHand",
	LEFT_TOES:                 "leftToes",
	RIGHT_TOES:                "rightToes",
	LEFT_EYE:                  "leftEye",
	RIGHT_EYE:                 "rightEye",
	JAW:                       "jaw",
	LEFT_THUMB_PROXIMAL:       "leftThumbProximal",
	LEFT_THUMB_INTERMEDIATE:   "leftThumbIntermediate",
	LEFT_THUMB_DISTAL:         "leftThumbDistal",
	LEFT_INDEX_PROXIMAL:       "leftIndexProximal",
	LEFT_INDEX_INTERMEDIATE:   "leftIndexIntermediate",
	LEFT_INDEX_DISTAL:         "leftIndexDistal",
	LEFT_MIDDLE_PROXIMAL:      "leftMiddleProximal",
	LEFT_MIDDLE_INTERMEDIATE:  "leftMiddleIntermediate",
	LEFT_MIDDLE_DISTAL:        "leftMiddleDistal",
	LEFT_RING_PROXIMAL:        "leftRingProximal",
	LEFT_RING_INTERMEDIATE:    "leftRingIntermediate",
	LEFT_RING_DISTAL:          "leftRingDistal",
	LEFT_LITTLE_PROXIMAL:      "leftLittleProximal",
	LEFT_LITTLE_INTERMEDIATE:  "leftLittleIntermediate",
	LEFT_LITTLE_DISTAL:        "leftLittleDistal",
	RIGHT_THUMB_PROXIMAL:      "rightThumbProximal",
	RIGHT_THUMB_INTERMEDIATE:  "rightThumbIntermediate",
	RIGHT_THUMB_DISTAL:        "rightThumbDistal",
	RIGHT_INDEX_PROXIMAL:      "rightIndexProximal",
	RIGHT_INDEX_INTERMEDIATE:  "rightIndexIntermediate",
	RIGHT_INDEX_DISTAL:        "rightIndexDistal",
	RIGHT_MIDDLE_PROXIMAL:     "rightMiddleProximal",
	RIGHT_MIDDLE_INTERMEDIATE: "rightMiddleIntermediate",
	RIGHT_MIDDLE_DISTAL:       "rightMiddleDistal",
	RIGHT_RING_PROXIMAL:       "rightRingProximal",
	RIGHT_RING_INTERMEDIATE:   "rightRingIntermediate",
	RIGHT_RING_DISTAL:         "rightRingDistal",
	RIGHT_LITTLE_PROXIMAL:     "rightLittleProximal",
	RIGHT_LITTLE_INTERMEDIATE: "rightLittleIntermediate",
	RIGHT_LITTLE_DISTAL:       "rightLittleDistal",
	UPPER_CHEST:               "upperChest",
}

// humanBoneByName はVRMヒューマノイド名からボーンを引く。
var humanBoneByName = func() map[string]HumanBone {
	byName := make(map[string]HumanBone, HUMAN_BONE_COUNT)
	for i, name := range humanBoneNames {
		byName[name] = HumanBone(i)
	}
	return byName
}()

// staticParents は固定の親ボーン表を保持する。首・肩は ParentBone で UpperChest 有無により解決する。
var staticParents = [HUMAN_BONE_COUNT]HumanBone{
	HIPS:                      BONE_NONE,
	LEFT_UPPER_LEG:            HIPS,
	RIGHT_UPPER_LEG:           HIPS,
	LEFT_LOWER_LEG:            LEFT_UPPER_LEG,
	RIGHT_LOWER_LEG:           RIGHT_UPPER_LEG,
	LEFT_FOOT:                 LEFT_LOWER_LEG,
	RIGHT_FOOT:                RIGHT_LOWER_LEG,
	SPINE:                     HIPS,
	CHEST:                     SPINE,
	NECK:                      CHEST,
	HEAD:                      NECK,
	LEFT_SHOULDER:             CHEST,
	RIGHT_SHOULDER:            CHEST,
	LEFT_UPPER_ARM:            LEFT_SHOULDER,
	RIGHT_UPPER_ARM:           RIGHT_SHOULDER,
	LEFT_LOWER_ARM:            LEFT_UPPER_ARM,
	RIGHT_LOWER_ARM:           RIGHT_UPPER_ARM,
	LEFT_HAND:                 LEFT_LOWER_ARM,
	RIGHT_HAND:                RIGHT_LOWER_ARM,
	LEFT_TOES:                 LEFT_FOOT,
	RIGHT_TOES:                RIGHT_FOOT,
	LEFT_EYE:                  HEAD,
	RIGHT_EYE:                 HEAD,
	JAW:                       HEAD,
	LEFT_THUMB_PROXIMAL:       LEFT_HAND,
	LEFT_THUMB_INTERMEDIATE:   LEFT_THUMB_PROXIMAL,
	LEFT_THUMB_DISTAL:         LEFT_THUMB_INTERMEDIATE,
	LEFT_INDEX_PROXIMAL:       LEFT_HAND,
	LEFT_INDEX_INTERMEDIATE:   LEFT_INDEX_PROXIMAL,
	LEFT_INDEX_DISTAL:         LEFT_INDEX_INTERMEDIATE,
	LEFT_MIDDLE_PROXIMAL:      LEFT_HAND,
	LEFT_MIDDLE_INTERMEDIATE:  LEFT_MIDDLE_PROXIMAL,
	LEFT_MIDDLE_DISTAL:        LEFT_MIDDLE_INTERMEDIATE,
	LEFT_RING_PROXIMAL:        LEFT_HAND,
	LEFT_RING_INTERMEDIATE:    LEFT_RING_PROXIMAL,
	LEFT_RING_DISTAL:          LEFT_RING_INTERMEDIATE,
	LEFT_LITTLE_PROXIMAL:      LEFT_HAND,
	LEFT_LITTLE_INTERMEDIATE:  LEFT_LITTLE_PROXIMAL,
	LEFT_LITTLE_DISTAL:        LEFT_LITTLE_INTERMEDIATE,
	RIGHT_THUMB_PROXIMAL:      RIGHT_HAND,
	RIGHT_THUMB_INTERMEDIATE:  RIGHT_THUMB_PROXIMAL,
	RIGHT_THUMB_DISTAL:        RIGHT_THUMB_INTERMEDIATE,
	RIGHT_INDEX_PROXIMAL:      RIGHT_HAND,
	RIGHT_INDEX_INTERMEDIATE:  RIGHT_INDEX_PROXIMAL,
	RIGHT_INDEX_DISTAL:        RIGHT_INDEX_INTERMEDIATE,
	RIGHT_MIDDLE_PROXIMAL:     RIGHT_HAND,
	RIGHT_MIDDLE_INTERMEDIATE: RIGHT_MIDDLE_PROXIMAL,
	RIGHT_MIDDLE_DISTAL:       RIGHT_MIDDLE_INTERMEDIATE,
	RIGHT_RING_PROXIMAL:       RIGHT_HAND,
	RIGHT_RING_INTERMEDIATE:   RIGHT_RING_PROXIMAL,
	RIGHT_RING_DISTAL:         RIGHT_RING_INTERMEDIATE,
	RIGHT_LITTLE_PROXIMAL:     RIGHT_HAND,
	RIGHT_LITTLE_INTERMEDIATE: RIGHT_LITTLE_PROXIMAL,
	RIGHT_LITTLE_DISTAL:       RIGHT_LITTLE_INTERMEDIATE,
	UPPER_CHEST:               CHEST,
}

// HumanBoneByName はVRMヒューマノイド名からボーンを返す。
func HumanBoneByName(name string) (HumanBone, bool) {
	bone, ok := humanBoneByName[name]
	return bone, ok
}

// AllHumanBones は全ボーンを列挙順で返す。
func AllHumanBones() []HumanBone {
	bones := make([]HumanBone, HUMAN_BONE_COUNT)
	for i := range bones {
		bones[i] = HumanBone(i)
	}
	return bones
}

// IsValid は列挙範囲内か判定する。
func (b HumanBone) IsValid() bool {
	return b >= 0 && int(b) < HUMAN_BONE_COUNT
}

// Name はVRMヒューマノイド名を返す。
func (b HumanBone) Name() string {
	if !b.IsValid() {
		return ""
	}
	return humanBoneNames[b]
}

// String は表示用文字列を返す。
func (b HumanBone) String() string {
	if !b.IsValid() {
		return "none"
	}
	return humanBoneNames[b]
}

// Side は左なら+1、右なら-1、中央なら0を返す。
func (b HumanBone) Side() float64 {
	switch {
	case b.IsLeft():
		return 1
	case b.IsRight():
		return -1
	default:
		return 0
	}
}

// IsLeft は左側ボーンか判定する。
func (b HumanBone) IsLeft() bool {
	name := b.Name()
	return len(name) > 4 && name[:4] == "left"
}

// IsRight は右側ボーンか判定する。
func (b HumanBone) IsRight() bool {
	name := b.Name()
	return len(name) > 5 && name[:5] == "right"
}

// ParentBone は解決済みの親ボーンを返す。
// 首と肩は UpperChest があればそこへ、なければ Chest へ接続する。
// 固定表の親が存在しない場合はさらに上位へ辿る。
func ParentBone(bone HumanBone, hasBone func(HumanBone) bool) HumanBone {
	if !bone.IsValid() || bone == HIPS {
		return BONE_NONE
	}
	parent := staticParents[bone]
	switch bone {
	case NECK, LEFT_SHOULDER, RIGHT_SHOULDER:
		if hasBone(UPPER_CHEST) {
			parent = UPPER_CHEST
		} else {
			parent = CHEST
		}
	}
	if parent != HIPS && !hasBone(parent) {
		return ParentBone(parent, hasBone)
	}
	return parent
}

// LimbBones は腕または脚の根元・中間・先端ボーンを保持する。
type LimbBones struct {
	Root HumanBone
	Mid  HumanBone
	Tip  HumanBone
}

// ArmBones は指定側の腕ボーンを返す。
func ArmBones(isLeft bool) LimbBones {
	if isLeft {
		return LimbBones{Root: LEFT_UPPER_ARM, Mid: LEFT_LOWER_ARM, Tip: LEFT_HAND}
	}
	return LimbBones{Root: RIGHT_UPPER_ARM, Mid: RIGHT_LOWER_ARM, Tip: RIGHT_HAND}
}

// LegBones は指定側の脚ボーンを返す。
func LegBones(isLeft bool) LimbBones {
	if isLeft {
		return LimbBones{Root: LEFT_UPPER_LEG, Mid: LEFT_LOWER_LEG, Tip: LEFT_FOOT}
	}
	return LimbBones{Root: RIGHT_UPPER_LEG, Mid: RIGHT_LOWER_LEG, Tip: RIGHT_FOOT}
}

// ShoulderBone は指定側の肩ボーンを返す。
func ShoulderBone(isLeft bool) HumanBone {
	if isLeft {
		return LEFT_SHOULDER
	}
	return RIGHT_SHOULDER
}

// ToesBone は指定側のつま先ボーンを返す。
func ToesBone(isLeft bool) HumanBone {
	if isLeft {
		return LEFT_TOES
	}
	return RIGHT_TOES
}
