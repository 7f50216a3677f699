// Package criteria implements the criterion registry (component C's
// lookup table): mapping a criterion name to its declared value type,
// base attribute mask, and parsing flags, with an optional
// deployment-supplied TOML extension file for additional xattr-backed
// criteria.
package criteria

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/scalar"
)

// ValueType is the declared type of a criterion's value.
type ValueType int

const (
	ValueString ValueType = iota
	ValueSize
	ValueInt
	ValueDuration
	ValueType_ // the "type" enum criterion (file/directory/...)
)

// Descriptor is one criterion's entry in the registry.
type Descriptor struct {
	Name         string
	ValueType    ValueType
	BaseAttrMask attrmask.Mask
	Flags        scalar.Flags
	IsStatus     bool
	IsXattr      bool
}

// Registry is a case-insensitive criterion table.
type Registry struct {
	byName map[string]Descriptor
	names  []string // insertion order, for suggestion/enumeration
}

// NewRegistry builds the registry seeded with the closed set of
// well-known criteria from the data model: path, filename, tree, owner,
// group, type, size, depth, last-access, last-mod, status. xattr.<key>
// criteria are matched dynamically (see Lookup) rather than registered
// individually.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Descriptor)}
	r.register(Descriptor{Name: "path", ValueType: ValueString, BaseAttrMask: attrmask.AttrPath, Flags: scalar.FlagComparable | scalar.FlagAllowAnyDepth})
	r.register(Descriptor{Name: "filename", ValueType: ValueString, BaseAttrMask: attrmask.AttrName, Flags: scalar.FlagComparable})
	r.register(Descriptor{Name: "tree", ValueType: ValueString, BaseAttrMask: attrmask.AttrPath | attrmask.AttrTree, Flags: scalar.FlagAllowAnyDepth})
	r.register(Descriptor{Name: "owner", ValueType: ValueString, BaseAttrMask: attrmask.AttrOwner, Flags: scalar.FlagComparable})
	r.register(Descriptor{Name: "group", ValueType: ValueString, BaseAttrMask: attrmask.AttrGroup, Flags: scalar.FlagComparable})
	r.register(Descriptor{Name: "type", ValueType: ValueType_, BaseAttrMask: attrmask.AttrType})
	r.register(Descriptor{Name: "size", ValueType: ValueSize, BaseAttrMask: attrmask.AttrSize, Flags: scalar.FlagComparable | scalar.FlagPositive})
	r.register(Descriptor{Name: "depth", ValueType: ValueInt, BaseAttrMask: attrmask.AttrDepth, Flags: scalar.FlagComparable | scalar.FlagPositive})
	r.register(Descriptor{Name: "last_access", ValueType: ValueDuration, BaseAttrMask: attrmask.AttrLastAccess, Flags: scalar.FlagComparable | scalar.FlagPositive})
	r.register(Descriptor{Name: "last_mod", ValueType: ValueDuration, BaseAttrMask: attrmask.AttrLastMod, Flags: scalar.FlagComparable | scalar.FlagPositive})
	r.register(Descriptor{Name: "status", ValueType: ValueString, IsStatus: true, Flags: scalar.FlagStatus})
	return r
}

func (r *Registry) register(d Descriptor) {
	r.byName[strings.ToLower(d.Name)] = d
	r.names = append(r.names, d.Name)
}

// Lookup resolves a criterion name, handling the dynamic "xattr.<key>"
// family: any name with an "xattr." prefix resolves to a synthesized
// string-valued, non-comparable descriptor with AttrXattr set.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "xattr.") && len(lower) > len("xattr.") {
		return Descriptor{
			Name:         name,
			ValueType:    ValueString,
			BaseAttrMask: attrmask.AttrXattr,
			Flags:        scalar.FlagXattr,
			IsXattr:      true,
		}, true
	}
	d, ok := r.byName[lower]
	return d, ok
}

// Names returns every registered criterion name (not including the
// dynamic xattr.* family), for "did you mean" suggestions.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// extensionFile is the shape of an optional TOML criteria-extension
// document a deployment can load to pre-register additional xattr
// criteria under a friendly name, instead of spelling "xattr.<key>"
// at every use site.
type extensionFile struct {
	Criteria []struct {
		Name       string `toml:"name"`
		XattrKey   string `toml:"xattr_key"`
		Comparable bool   `toml:"comparable"`
	} `toml:"criteria"`
}

// LoadExtensions reads a TOML criteria-extension file and registers
// each entry as a named alias for an xattr criterion.
func (r *Registry) LoadExtensions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("criteria: reading extension file %s: %w", path, err)
	}
	var doc extensionFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("criteria: parsing extension file %s: %w", path, err)
	}
	for _, c := range doc.Criteria {
		flags := scalar.FlagXattr
		if c.Comparable {
			flags |= scalar.FlagComparable
		}
		r.register(Descriptor{
			Name:         c.Name,
			ValueType:    ValueString,
			BaseAttrMask: attrmask.AttrXattr,
			Flags:        flags,
			IsXattr:      true,
		})
	}
	return nil
}
