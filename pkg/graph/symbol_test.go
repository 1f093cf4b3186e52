package graph

import "testing"

func TestInferSymbolType_DeclaredKnown(t *testing.T) {
	got := InferSymbolType("Feature", "whatever", "xyz")
	if got != SymbolFeature {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolFeature)
	}
}

func TestInferSymbolType_DeclaredUnknownFallsBack(t *testing.T) {
	got := InferSymbolType("mystery", "Brake Testcase 4", "")
	if got != SymbolTestCase {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolTestCase)
	}
}

func TestInferSymbolType_ConfigPriority(t *testing.T) {
	// The c_ prefix wins even when the name also matches other rules.
	got := InferSymbolType("", "c_brake_feature", "")
	if got != SymbolConfig {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolConfig)
	}

	// vcf extension wins too.
	got = InferSymbolType("", "testcase list", "vcf")
	if got != SymbolConfig {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolConfig)
	}
}

func TestInferSymbolType_Rules(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want SymbolType
	}{
		{"Main ProductLine", "", SymbolProductLine},
		{"anything", "pl", SymbolProductLine},
		{"Brakes FeatureSet", "", SymbolFeatureSet},
		{"anything", "fst", SymbolFeatureSet},
		{"ABS Testcase", "", SymbolTestCase},
		{"anything", "tst", SymbolTestCase},
		{"Deceleration Requirement", "", SymbolRequirement},
		{"anything", "req", SymbolRequirement},
		{"Actuate Function", "", SymbolFunction},
		{"Hydraulics Block", "blk", SymbolBlock},
		{"CAN Port", "", SymbolPort},
		{"nothing matches", "bin", SymbolUnknown},
		{"", "", SymbolUnknown},
	}
	for _, tt := range tests {
		if got := InferSymbolType("", tt.name, tt.ext); got != tt.want {
			t.Errorf("InferSymbolType(%q, %q) = %v, want %v", tt.name, tt.ext, got, tt.want)
		}
	}
}

func TestInferSymbolType_SetBeforeItem(t *testing.T) {
	// "testset" must not be swallowed by a weaker rule.
	if got := InferSymbolType("", "Regression TestSet", ""); got != SymbolTestSet {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolTestSet)
	}
	// "featureset" must not match as feature.
	if got := InferSymbolType("", "Chassis FeatureSet", ""); got != SymbolFeatureSet {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolFeatureSet)
	}
}

func TestInferSymbolType_ExtensionDotPrefix(t *testing.T) {
	if got := InferSymbolType("", "anything", ".tst"); got != SymbolTestCase {
		t.Errorf("InferSymbolType() = %v, want %v", got, SymbolTestCase)
	}
}

func TestSymbolType_IsSet(t *testing.T) {
	sets := []SymbolType{SymbolFeatureSet, SymbolFunctionSet, SymbolReqSet, SymbolTestSet, SymbolConfigSet, SymbolVariantSet}
	for _, s := range sets {
		if !s.IsSet() {
			t.Errorf("IsSet(%v) = false, want true", s)
		}
	}
	items := []SymbolType{SymbolFeature, SymbolProductLine, SymbolConfig, SymbolUnknown}
	for _, s := range items {
		if s.IsSet() {
			t.Errorf("IsSet(%v) = true, want false", s)
		}
	}
}

func TestSymbolType_LevelRank(t *testing.T) {
	if SymbolProductLine.LevelRank() != 0 {
		t.Errorf("LevelRank(productline) = %d, want 0", SymbolProductLine.LevelRank())
	}
	if SymbolBlock.LevelRank() != 9 {
		t.Errorf("LevelRank(block) = %d, want 9", SymbolBlock.LevelRank())
	}
	if SymbolUnknown.LevelRank() <= SymbolBlock.LevelRank() {
		t.Error("unknown symbols must rank after every known type")
	}

	// Full ordering must be strictly increasing.
	order := []SymbolType{
		SymbolProductLine, SymbolFeatureSet, SymbolFeature,
		SymbolFunctionSet, SymbolFunction, SymbolReqSet,
		SymbolRequirement, SymbolTestSet, SymbolTestCase, SymbolBlock,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1].LevelRank() >= order[i].LevelRank() {
			t.Errorf("LevelRank(%v) >= LevelRank(%v)", order[i-1], order[i])
		}
	}
}
