package graph

// RelationType classifies an edge. The set is open: unrecognized relation
// strings are carried through untouched and simply do not participate in
// hierarchy collapsing or traversal stop rules.
type RelationType string

// Recognized relation types. Hierarchy relations drive layout placement;
// the rest are logical connections drawn by the renderer but ignored when
// computing positions.
const (
	RelationChildOf     RelationType = "childof"
	RelationParentOf    RelationType = "parentof"
	RelationHierarchy   RelationType = "hierarchy"
	RelationListedFor   RelationType = "listedfor"
	RelationComposedOf  RelationType = "composedof"
	RelationEnables     RelationType = "enables"
	RelationImplements  RelationType = "implements"
	RelationAllocatedTo RelationType = "allocatedto"
	RelationSatisfies   RelationType = "satisfies"
	RelationRequires    RelationType = "requires"
	RelationExcludes    RelationType = "excludes"
	RelationWhen        RelationType = "when"
	RelationRef         RelationType = "ref"
)

// IsHierarchy reports whether the relation expresses parent→child structure.
// Layouts collapse exactly these relations into placement adjacency.
func (r RelationType) IsHierarchy() bool {
	return r == RelationChildOf || r == RelationParentOf || r == RelationHierarchy
}
