package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — semantic roles over inconsistent listing columns
// ============================================================================
// Listing exports never agree on column names: the same dataset may spell
// the boat name "boat_name", "Nome della barca" or "title". The schema
// maps each semantic role to an ordered list of acceptable literal
// spellings; wherever a role must be pinned to one concrete column, the
// first spelling present wins.
//
// The engine uses roles to order display columns and pick per-cell
// formatting. Nothing here inspects values — classification is by name
// only.
// ============================================================================

// Role names a semantic column family.
type Role string

const (
	RoleName     Role = "name"
	RolePrice    Role = "price"
	RoleYear     Role = "year"
	RoleBrand    Role = "brand"
	RoleLocation Role = "location"
)

// AliasGroup binds one role to its accepted literal column spellings,
// most canonical first.
type AliasGroup struct {
	Role      Role     `json:"role" yaml:"role"`
	Spellings []string `json:"spellings" yaml:"spellings"`
}

// Config is the full alias table, group order significant.
type Config struct {
	Groups []AliasGroup `json:"groups" yaml:"groups"`
}

// DefaultConfig returns the alias table for boat-listing exports,
// including the localized spellings seen in the field.
func DefaultConfig() Config {
	return Config{Groups: []AliasGroup{
		{Role: RoleName, Spellings: []string{"boat_name", "Nome della barca", "boatName", "name", "title"}},
		{Role: RolePrice, Spellings: []string{"price", "Price", "prezzo", "cost"}},
		{Role: RoleYear, Spellings: []string{"year", "Year", "anno", "build_year", "construction_year"}},
		{Role: RoleBrand, Spellings: []string{"brand", "Brand", "marca", "manufacturer", "make"}},
		{Role: RoleLocation, Spellings: []string{"location", "Location", "luogo", "region", "area", "port"}},
	}}
}

// Group returns the alias group for a role.
func (c Config) Group(role Role) (AliasGroup, bool) {
	for _, g := range c.Groups {
		if g.Role == role {
			return g, true
		}
	}
	return AliasGroup{}, false
}

// FirstIn resolves a role against a concrete column set: the first
// spelling present in columns wins.
func (c Config) FirstIn(role Role, columns []string) (string, bool) {
	g, ok := c.Group(role)
	if !ok {
		return "", false
	}
	for _, s := range g.Spellings {
		for _, col := range columns {
			if col == s {
				return s, true
			}
		}
	}
	return "", false
}

// RoleOf classifies a column name: the first group whose spellings
// contain it, exact match. Columns outside every group have no role.
func (c Config) RoleOf(column string) (Role, bool) {
	for _, g := range c.Groups {
		for _, s := range g.Spellings {
			if s == column {
				return g.Role, true
			}
		}
	}
	return "", false
}

// Validate rejects alias tables the resolver cannot use deterministically:
// empty groups, blank spellings, or one spelling claimed by two roles.
func (c Config) Validate() error {
	claimed := make(map[string]Role)
	for _, g := range c.Groups {
		if g.Role == "" {
			return fmt.Errorf("alias group with empty role")
		}
		if len(g.Spellings) == 0 {
			return fmt.Errorf("alias group %q has no spellings", g.Role)
		}
		for _, s := range g.Spellings {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("alias group %q contains a blank spelling", g.Role)
			}
			if prev, ok := claimed[s]; ok && prev != g.Role {
				return fmt.Errorf("spelling %q claimed by both %q and %q", s, prev, g.Role)
			}
			claimed[s] = g.Role
		}
	}
	return nil
}
