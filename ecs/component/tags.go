package component

// Inactive excludes an entity and its descendants from active-only lookups.
type Inactive struct{}

var InactiveComponent = NewComponent[Inactive]()

// Name is a human readable label used in logs and scene lookups.
type Name string

var NameComponent = NewComponent[Name]()
