package graph

import "strings"

// SymbolType is the domain classification of a node. The set is closed:
// unrecognized declarations resolve to SymbolUnknown via InferSymbolType.
type SymbolType string

// The closed set of symbol types.
const (
	SymbolProductLine SymbolType = "productline"
	SymbolFeatureSet  SymbolType = "featureset"
	SymbolFeature     SymbolType = "feature"
	SymbolFunctionSet SymbolType = "functionset"
	SymbolFunction    SymbolType = "function"
	SymbolBlock       SymbolType = "block"
	SymbolReqSet      SymbolType = "reqset"
	SymbolRequirement SymbolType = "requirement"
	SymbolTestSet     SymbolType = "testset"
	SymbolTestCase    SymbolType = "testcase"
	SymbolConfig      SymbolType = "config"
	SymbolConfigSet   SymbolType = "configset"
	SymbolVariantSet  SymbolType = "variantset"
	SymbolPort        SymbolType = "port"
	SymbolUnknown     SymbolType = "unknown"
)

// knownSymbols indexes the closed set for declared-type validation.
var knownSymbols = map[SymbolType]bool{
	SymbolProductLine: true,
	SymbolFeatureSet:  true,
	SymbolFeature:     true,
	SymbolFunctionSet: true,
	SymbolFunction:    true,
	SymbolBlock:       true,
	SymbolReqSet:      true,
	SymbolRequirement: true,
	SymbolTestSet:     true,
	SymbolTestCase:    true,
	SymbolConfig:      true,
	SymbolConfigSet:   true,
	SymbolVariantSet:  true,
	SymbolPort:        true,
	SymbolUnknown:     true,
}

// IsSet reports whether the symbol is an organizational container whose
// members, rather than the container itself, are the semantically meaningful
// related items. Impact traversal does not descend past set nodes (with one
// exception, see traverse.ImpactChain).
func (s SymbolType) IsSet() bool {
	switch s {
	case SymbolFeatureSet, SymbolFunctionSet, SymbolReqSet, SymbolTestSet, SymbolConfigSet, SymbolVariantSet:
		return true
	}
	return false
}

// IsConfigDomain reports whether the symbol belongs to the configuration
// domain, which the cluster layout places in a separate left-hand column.
func (s SymbolType) IsConfigDomain() bool {
	return s == SymbolConfig || s == SymbolConfigSet
}

// levelRankUnknown is the rank assigned to symbols outside the canonical
// main-domain ordering. It sorts after every known rank.
const levelRankUnknown = 10

// levelRanks is the canonical main-domain type ordering used both as a
// vertical level and as a tie-break for horizontal ordering within a level.
var levelRanks = map[SymbolType]int{
	SymbolProductLine: 0,
	SymbolFeatureSet:  1,
	SymbolFeature:     2,
	SymbolFunctionSet: 3,
	SymbolFunction:    4,
	SymbolReqSet:      5,
	SymbolRequirement: 6,
	SymbolTestSet:     7,
	SymbolTestCase:    8,
	SymbolBlock:       9,
}

// LevelRank returns the symbol's position in the canonical type ordering
// (productline < featureset < feature < functionset < function < reqset <
// requirement < testset < testcase < block). Unknown and out-of-order types
// sort last.
func (s SymbolType) LevelRank() int {
	if r, ok := levelRanks[s]; ok {
		return r
	}
	return levelRankUnknown
}

// inferRule is one (predicate, result) entry in the ordered fallback chain.
type inferRule struct {
	match  func(name, ext string) bool
	result SymbolType
}

func extIs(want string) func(string, string) bool {
	return func(_, ext string) bool { return ext == want }
}

func nameHas(sub string) func(string, string) bool {
	return func(name, _ string) bool { return strings.Contains(name, sub) }
}

func either(a, b func(string, string) bool) func(string, string) bool {
	return func(name, ext string) bool { return a(name, ext) || b(name, ext) }
}

// inferRules is evaluated in order; the first match wins. The config rule is
// deliberately first: a "c_" prefix or vcf extension takes priority over
// every other substring check. Set checks precede their item counterparts so
// that "testcase set" style names do not misclassify.
var inferRules = []inferRule{
	{func(name, ext string) bool { return strings.HasPrefix(name, "c_") || ext == "vcf" }, SymbolConfig},
	{either(nameHas("configset"), extIs("vcs")), SymbolConfigSet},
	{either(nameHas("productline"), extIs("pl")), SymbolProductLine},
	{either(nameHas("variantset"), extIs("vset")), SymbolVariantSet},
	{either(nameHas("featureset"), extIs("fst")), SymbolFeatureSet},
	{either(nameHas("functionset"), extIs("fns")), SymbolFunctionSet},
	{either(nameHas("reqset"), extIs("rqs")), SymbolReqSet},
	{either(nameHas("testset"), extIs("tss")), SymbolTestSet},
	{either(nameHas("testcase"), extIs("tst")), SymbolTestCase},
	{either(nameHas("requirement"), extIs("req")), SymbolRequirement},
	{either(nameHas("function"), extIs("fnc")), SymbolFunction},
	{either(nameHas("feature"), extIs("fea")), SymbolFeature},
	{either(nameHas("block"), extIs("blk")), SymbolBlock},
	{nameHas("port"), SymbolPort},
	{nameHas("config"), SymbolConfig},
}

// InferSymbolType resolves a node's symbol type from its declared type
// string, display name, and file extension. A declared type that matches the
// closed set is used as-is; otherwise an ordered list of case-insensitive
// substring and extension rules is applied. The chain is deterministic and
// falls through to SymbolUnknown, never an error.
func InferSymbolType(declared, displayName, fileExtension string) SymbolType {
	if t := SymbolType(strings.ToLower(strings.TrimSpace(declared))); t != "" && knownSymbols[t] {
		return t
	}

	name := strings.ToLower(displayName)
	ext := strings.ToLower(strings.TrimPrefix(fileExtension, "."))
	for _, r := range inferRules {
		if r.match(name, ext) {
			return r.result
		}
	}
	return SymbolUnknown
}
