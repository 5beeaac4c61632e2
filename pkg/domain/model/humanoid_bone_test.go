// 指示: miu200521358
package model

import "testing"

func TestHumanBoneNamesRoundTrip(t *testing.T) {
	if HUMAN_BONE_COUNT != 55 {
		t.Fatalf("bone count mismatch: got=%d want=%d", HUMAN_BONE_COUNT, 55)
	}
	for _, bone := range AllHumanBones() {
		name := bone.Name()
		if name == "" {
			t.Fatalf("bone name should not be empty: index=%d", int(bone))
		}
		got, ok := HumanBoneByName(name)
		if !ok || got != bone {
			t.Fatalf("bone lookup mismatch: name=%s got=%v want=%v", name, got, bone)
		}
	}
	if UPPER_CHEST.Name() != "upperChest" {
		t.Fatalf("upperChest name mismatch: got=%s", UPPER_CHEST.Name())
	}
	if _, ok := HumanBoneByName("unknown"); ok {
		t.Fatalf("unknown name should not resolve")
	}
}

func TestHumanBoneSide(t *testing.T) {
	cases := []struct {
		bone HumanBone
		want float64
	}{
		{LEFT_HAND, 1},
		{RIGHT_FOOT, -1},
		{HIPS, 0},
		{UPPER_CHEST, 0},
		{LEFT_LITTLE_DISTAL, 1},
	}
	for _, c := range cases {
		if got := c.bone.Side(); got != c.want {
			t.Fatalf("side mismatch: bone=%s got=%v want=%v", c.bone, got, c.want)
		}
	}
}

func TestParentBoneRoutesNeckAndShoulders(t *testing.T) {
	all := func(HumanBone) bool { return true }
	withoutUpperChest := func(bone HumanBone) bool { return bone != UPPER_CHEST }

	for _, bone := range []HumanBone{NECK, LEFT_SHOULDER, RIGHT_SHOULDER} {
		if got := ParentBone(bone, all); got != UPPER_CHEST {
			t.Fatalf("parent mismatch with upperChest: bone=%s got=%s", bone, got)
		}
		if got := ParentBone(bone, withoutUpperChest); got != CHEST {
			t.Fatalf("parent mismatch without upperChest: bone=%s got=%s", bone, got)
		}
	}
	if got := ParentBone(HIPS, all); got != BONE_NONE {
		t.Fatalf("hips parent mismatch: got=%s", got)
	}
	if got := ParentBone(UPPER_CHEST, all); got != CHEST {
		t.Fatalf("upperChest parent mismatch: got=%s", got)
	}
}

func TestParentBoneSkipsAbsentAncestors(t *testing.T) {
	withoutShoulder := func(bone HumanBone) bool { return bone != LEFT_SHOULDER && bone != UPPER_CHEST }
	if got := ParentBone(LEFT_UPPER_ARM, withoutShoulder); got != CHEST {
		t.Fatalf("upper arm parent mismatch: got=%s want=%s", got, CHEST)
	}
}
