// 指示: miu200521358
package model

import "testing"

func TestFbikIDsAreNonEmptyAndUnique(t *testing.T) {
	ids := []string{
		FbikWarningNotTStance,
		FbikWarningRequiredBoneMissing,
		FbikWarningLookupTableIgnored,
		FbikWarningNonUniformScale,
		TraceSpineChain,
		TraceSpinePrime,
		TraceSpineRealign,
		TraceArmBendDirection,
		TraceArmChain,
		TraceShoulder,
		TraceLegBendDirection,
		TraceLegChain,
		TraceSelfParenting,
	}

	seen := map[string]struct{}{}
	for _, id := range ids {
		if id == "" {
			t.Fatalf("id should not be empty")
		}
		if _, exists := seen[id]; exists {
			t.Fatalf("id should be unique: %s", id)
		}
		seen[id] = struct{}{}
	}
}
