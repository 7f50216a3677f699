// Package moduleconfig implements the module-descriptor driver
// (component H): given a table of modules, each owning its own config
// value and a set of lifecycle callbacks, it walks the table to read,
// reload, or print a full configuration.
package moduleconfig

import (
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

// ModuleFlag gates which modules ReadConfig/ReloadConfig touch for a
// given caller-supplied mask.
type ModuleFlag uint32

const (
	// Always marks a module that is read/reloaded unconditionally,
	// regardless of the caller's mask.
	Always ModuleFlag = 0
)

// Selected reports whether a module with flags participates for mask.
func (f ModuleFlag) Selected(mask ModuleFlag) bool {
	return f == Always || f&mask != 0
}

// Descriptor is one entry of the module table: a name, a selection
// flag, and the lifecycle callbacks a concrete module supplies. The
// module's configuration ("Config" below) is a value the module itself
// holds, mutated in place by the callbacks — Go has
// no offset-into-struct trick, so each module owns its config rather
// than living at a byte offset inside one packed struct.
type Descriptor struct {
	Name  string
	Flags ModuleFlag

	// SetDefault resets Config to its default values.
	SetDefault func() error
	// Read populates Config from root, the parsed configuration tree.
	// forReload indicates this call is part of a reload rather than the
	// initial read, for modules that restrict what can change live.
	Read func(root *syntaxtree.Block, forReload bool) error
	// Reload re-reads Config from root for a running process; unlike
	// Read, its failure never aborts the walk.
	Reload func(root *syntaxtree.Block) error
	// WriteTemplate writes a commented template of every parameter this
	// module accepts.
	WriteTemplate func(p *Printer) error
	// WriteDefault writes this module's default configuration values.
	WriteDefault func(p *Printer) error
}
