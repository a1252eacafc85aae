package model

// UserRef identifies the acting user. Supplied by the identity middleware on
// every request and trusted as-is; the flow engine never re-verifies it.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusRef is the denormalized snapshot of an assignment stamped on tasks
// and history rows. Snapshots survive later edits to the assignment itself.
type StatusRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SortField is one entry of an assignment's claim-ordering configuration.
type SortField struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// sortColumns whitelists the task columns a sort configuration may reference.
// Anything outside this map is ignored, which also keeps user-editable sort
// configs out of the SQL string entirely.
var sortColumns = map[string]string{
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"idDemanda":  "id_demanda",
	"id_demanda": "id_demanda",
	"regional":   "regional",
	"base":       "base",
	"cidade":     "cidade",
	"uf":         "uf",
}

// Column resolves the configured field to a real task column.
// The second return is false for fields outside the whitelist.
func (s SortField) Column() (string, bool) {
	col, ok := sortColumns[s.Field]
	return col, ok
}

// Desc reports whether the field sorts descending. Anything that is not
// explicitly "desc" sorts ascending.
func (s SortField) Desc() bool {
	return s.Direction == "desc" || s.Direction == "DESC"
}

// DefaultSort is the fallback claim ordering used when an assignment has no
// sort configuration of its own. Deployments may override it via config.
func DefaultSort() []SortField {
	return []SortField{{Field: "updated_at", Direction: "asc"}}
}
