// Package fileclass implements the named, case-insensitive file-class
// registry: { id, definition (owned bool tree), attr_mask } triples that
// set expressions reference by name and substitute as non-owning views.
package fileclass

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
)

// Class is one named, reusable boolean predicate over file attributes.
type Class struct {
	ID         string
	Definition *boolexpr.Node // owner == true at the root
	AttrMask   attrmask.Mask
}

// Table is the case-insensitive registry of defined classes.
type Table struct {
	byName map[string]*Class
}

// NewTable builds an empty class table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Class)}
}

// Define registers a class. Redefining an existing id (case-
// insensitively) replaces it; the driver is responsible for rejecting
// duplicate definitions if that's undesired in a given deployment.
func (t *Table) Define(id string, definition *boolexpr.Node, mask attrmask.Mask) {
	t.byName[strings.ToLower(id)] = &Class{ID: id, Definition: definition, AttrMask: mask}
}

// Lookup resolves a class id case-insensitively.
func (t *Table) Lookup(id string) (*Class, bool) {
	c, ok := t.byName[strings.ToLower(id)]
	return c, ok
}

// Names lists every defined class id, in no particular order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for _, c := range t.byName {
		names = append(names, c.ID)
	}
	return names
}

// String renders the table as a sequence of canonical "id: <expr>"
// lines, sorted by id for deterministic output (the explain command
// prints it).
func (t *Table) String() string {
	names := t.Names()
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		c, _ := t.Lookup(name)
		fmt.Fprintf(&b, "%s: %s\n", c.ID, boolexpr.Print(c.Definition))
	}
	return b.String()
}
