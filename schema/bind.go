package schema

// ============================================================================
// ROLE BINDING — pins roles to one dataset's concrete columns
// ============================================================================
// Resolution per role:
//   1. Walk the group's spellings in order
//   2. First spelling present among the dataset columns wins
//   3. Roles with no match stay unbound — the dataset simply lacks them
//
// Built once per loaded dataset, then read-only. Used for startup
// diagnostics and the schema preview surfaces; per-query display ordering
// resolves against result columns instead (see engine).
// ============================================================================

// Binding is the role→column assignment for one dataset.
type Binding struct {
	byRole map[Role]string
	order  []Role
}

// Bind resolves every configured role against the dataset columns.
func Bind(cfg Config, columns []string) Binding {
	b := Binding{byRole: make(map[Role]string, len(cfg.Groups))}
	for _, g := range cfg.Groups {
		col, ok := cfg.FirstIn(g.Role, columns)
		if !ok {
			continue
		}
		b.byRole[g.Role] = col
		b.order = append(b.order, g.Role)
	}
	return b
}

// Column returns the concrete column bound to a role.
func (b Binding) Column(role Role) (string, bool) {
	col, ok := b.byRole[role]
	return col, ok
}

// Roles lists the bound roles in config group order.
func (b Binding) Roles() []Role {
	return b.order
}

// Unmatched lists dataset columns that belong to no alias group, in
// dataset order. These still execute and display fine — they just get no
// role-specific treatment.
func Unmatched(cfg Config, columns []string) []string {
	var out []string
	for _, col := range columns {
		if _, ok := cfg.RoleOf(col); !ok {
			out = append(out, col)
		}
	}
	return out
}
