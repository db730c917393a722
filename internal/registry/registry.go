// Package registry tracks the identifiers of every generated row so later
// stages can resolve parent references without re-querying storage. An id
// becomes visible only after its row has been durably inserted.
package registry

import "fmt"

// EntityType names one generated table.
type EntityType string

const (
	Organizations EntityType = "organizations"
	Teams         EntityType = "teams"
	Users         EntityType = "users"
	Memberships   EntityType = "team_memberships"
	Projects      EntityType = "projects"
	Sections      EntityType = "sections"
	Tasks         EntityType = "tasks"
	Subtasks      EntityType = "subtasks"
	Comments      EntityType = "comments"
	Tags          EntityType = "tags"
	TaskTags      EntityType = "task_tags"
	FieldDefs     EntityType = "custom_field_definitions"
	FieldValues   EntityType = "custom_field_values"
)

// Parent reference kinds used by the auxiliary indexes.
const (
	ByOrganization = "organization"
	ByTeam         = "team"
	ByUser         = "user"
	ByProject      = "project"
	ByTask         = "task"
	BySection      = "section"
)

// Registry is an arena of generated row ids plus parent-keyed indexes for
// O(1) amortized relational sampling. It is owned by the pipeline and passed
// forward explicitly; it is not safe for concurrent mutation.
type Registry struct {
	ids      map[EntityType][]int64
	byParent map[EntityType]map[string]map[int64][]int64
	parents  map[EntityType]map[int64]map[string]int64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		ids:      make(map[EntityType][]int64),
		byParent: make(map[EntityType]map[string]map[int64][]int64),
		parents:  make(map[EntityType]map[int64]map[string]int64),
	}
}

// Register records a durably inserted row id together with its parent
// references, e.g. Register(Tasks, 42, map[string]int64{ByProject: 7}).
func (r *Registry) Register(entity EntityType, id int64, parentRefs map[string]int64) {
	r.ids[entity] = append(r.ids[entity], id)

	if len(parentRefs) == 0 {
		return
	}
	if r.parents[entity] == nil {
		r.parents[entity] = make(map[int64]map[string]int64)
	}
	r.parents[entity][id] = parentRefs

	if r.byParent[entity] == nil {
		r.byParent[entity] = make(map[string]map[int64][]int64)
	}
	for kind, parentID := range parentRefs {
		idx := r.byParent[entity][kind]
		if idx == nil {
			idx = make(map[int64][]int64)
			r.byParent[entity][kind] = idx
		}
		idx[parentID] = append(idx[parentID], id)
	}
}

// AllOf returns every registered id of an entity type in insertion order.
func (r *Registry) AllOf(entity EntityType) []int64 {
	return r.ids[entity]
}

// Count returns the number of registered rows of an entity type.
func (r *Registry) Count(entity EntityType) int {
	return len(r.ids[entity])
}

// ChildrenOf returns the ids of entity rows whose parentKind reference equals
// parentID, in insertion order.
func (r *Registry) ChildrenOf(entity EntityType, parentKind string, parentID int64) []int64 {
	kinds := r.byParent[entity]
	if kinds == nil {
		return nil
	}
	idx := kinds[parentKind]
	if idx == nil {
		return nil
	}
	return idx[parentID]
}

// SampleChild picks one child of parentID using the supplied index chooser
// (normally the distribution controller's Intn). ok is false when the parent
// has no registered children.
func (r *Registry) SampleChild(entity EntityType, parentKind string, parentID int64, pick func(n int) int) (int64, bool) {
	children := r.ChildrenOf(entity, parentKind, parentID)
	if len(children) == 0 {
		return 0, false
	}
	return children[pick(len(children))], true
}

// ParentOf resolves a registered row's parent reference of the given kind.
func (r *Registry) ParentOf(entity EntityType, id int64, parentKind string) (int64, bool) {
	rows := r.parents[entity]
	if rows == nil {
		return 0, false
	}
	refs := rows[id]
	if refs == nil {
		return 0, false
	}
	parentID, ok := refs[parentKind]
	return parentID, ok
}

// MustParent is ParentOf for references the dependency order guarantees.
// A miss means a stage ran out of order and is a structural error.
func (r *Registry) MustParent(entity EntityType, id int64, parentKind string) (int64, error) {
	parentID, ok := r.ParentOf(entity, id, parentKind)
	if !ok {
		return 0, fmt.Errorf("no %s reference registered for %s %d", parentKind, entity, id)
	}
	return parentID, nil
}
