// Package fileclasses is a concrete ModuleDescriptor exercising
// components D and E end-to-end: a set of named, reusable boolean
// predicates ("file classes") defined once and referenced by id from
// other modules' set expressions (see internal/modules/migration).
package fileclasses

import (
	"fmt"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/fileclass"
	"github.com/rbh-policy/policyd/internal/moduleconfig"
	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/unknownitem"
)

const childBlockName = "FileClass"

// Module owns the compiled file-class table, rebuilt on every
// Read/Reload from the document's "FileClass" blocks, plus any
// non-fatal compile warnings collected along the way (e.g. an
// any-level/lone-star ambiguity in a class definition).
type Module struct {
	Registry *criteria.Registry
	Statuses statusmgr.StatusManager
	Table    *fileclass.Table
	Warnings []unknownitem.Warning
}

// New returns a Module that compiles file classes against registry,
// consulting sm (which may be nil) for any "status" criteria.
func New(registry *criteria.Registry, sm statusmgr.StatusManager) *Module {
	return &Module{Registry: registry, Statuses: sm, Table: fileclass.NewTable()}
}

// Descriptor wires this module's lifecycle into a moduleconfig table;
// selected unconditionally, since file classes can be referenced from
// any other module.
func (m *Module) Descriptor() moduleconfig.Descriptor {
	return moduleconfig.Descriptor{
		Name:       "FileClasses",
		Flags:      moduleconfig.Always,
		SetDefault: m.setDefault,
		Read:       m.read,
		Reload:     m.reload,
	}
}

func (m *Module) setDefault() error {
	m.Table = fileclass.NewTable()
	return nil
}

func (m *Module) read(root *syntaxtree.Block, forReload bool) error {
	table := fileclass.NewTable()
	var warnings []unknownitem.Warning

	for _, child := range root.Children {
		if child.Name != childBlockName {
			continue
		}

		id := child.ID
		if id == "" {
			return policyerrors.New(policyerrors.KindMalformedExpr, childBlockName, "",
				"file class is missing its id").WithLine(child.Line)
		}

		defBlock := child.FindChild("definition")
		if defBlock == nil {
			return policyerrors.New(policyerrors.KindMalformedExpr, childBlockName, id,
				fmt.Sprintf("file class %q has no definition block", id)).WithLine(child.Line)
		}

		expr, err := syntaxtree.BoolExprFromBlock(defBlock)
		if err != nil {
			return policyerrors.Wrap(policyerrors.KindMalformedExpr, childBlockName, id, err).WithLine(defBlock.Line)
		}

		var mask attrmask.Mask
		node, err := boolexpr.Build(expr, m.Registry, m.Statuses, &mask, &warnings)
		if err != nil {
			return err
		}
		node.Owner = true
		table.Define(id, node, mask)
	}

	m.Table = table
	m.Warnings = warnings
	_ = forReload // file classes may be redefined freely on reload
	return nil
}

func (m *Module) reload(root *syntaxtree.Block) error {
	return m.read(root, true)
}
