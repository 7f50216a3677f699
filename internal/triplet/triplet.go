// Package triplet implements the criteria compiler (component C):
// mapping one syntactic "name OP value" item to a compiled comparison
// triplet, including the ==/!= -> LIKE/UNLIKE rewrite on wildcard
// operands and the "**" any-level rewrite.
package triplet

import (
	"fmt"

	"github.com/rbh-policy/policyd/internal/attrmask"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/scalar"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/suggest"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/unknownitem"
	"github.com/rbh-policy/policyd/internal/valueparse"
)

// CompOp is a compiled triplet operator. LIKE/UNLIKE never appear in
// source text; they are produced only by the wildcard rewrite below.
type CompOp string

const (
	CompEq     CompOp = "=="
	CompNe     CompOp = "!="
	CompLt     CompOp = "<"
	CompLe     CompOp = "<="
	CompGt     CompOp = ">"
	CompGe     CompOp = ">="
	CompLike   CompOp = "LIKE"
	CompUnlike CompOp = "UNLIKE"
)

// Flag is a per-triplet bit set; currently only AnyLevel is defined.
type Flag uint8

const (
	// FlagAnyLevel marks a string value that contained "**" and was
	// rewritten to "*".
	FlagAnyLevel Flag = 1 << iota
)

// ValueKind discriminates which field of Value is meaningful, so the
// printer (internal/boolexpr) can format a triplet without guessing
// from zero values.
type ValueKind int

const (
	ValueKindString ValueKind = iota
	ValueKindSize
	ValueKindInt
	ValueKindDuration
	ValueKindType
)

// Value is the tagged union over a triplet's typed value; Kind says
// which field to read.
type Value struct {
	Kind     ValueKind
	Str      string
	Size     uint64
	Int      int32
	Duration int64
	Type     valueparse.FileType
}

// Triplet is the compiled form of one condition.
type Triplet struct {
	Criterion  string
	Op         CompOp
	Value      Value
	XattrName  string
	Flags      Flag
	PreRewrite string // the pre-rewrite string value, kept for diagnostics
}

var syntaxToComp = map[syntaxtree.Op]CompOp{
	syntaxtree.OpEq: CompEq,
	syntaxtree.OpNe: CompNe,
	syntaxtree.OpLt: CompLt,
	syntaxtree.OpLe: CompLe,
	syntaxtree.OpGt: CompGt,
	syntaxtree.OpGe: CompGe,
}

// Compile turns item (a "crit OP value" key/value item from a policy
// match block) into a Triplet plus its attribute-mask contribution,
// consulting registry for the criterion's descriptor and sm (if
// non-nil) for status validation. diags, if non-nil, receives a
// warning for any non-fatal ambiguity found while compiling (currently
// only the any-level "**"/"*" mixing case); callers that don't care can
// pass nil.
func Compile(item *syntaxtree.Item, registry *criteria.Registry, sm statusmgr.StatusManager, diags *[]unknownitem.Warning) (Triplet, attrmask.Mask, error) {
	desc, ok := registry.Lookup(item.Name)
	if !ok {
		return Triplet{}, 0, policyerrors.New(policyerrors.KindUnknownCriterion, "", item.Name,
			fmt.Sprintf("unknown or unsupported criteria %q%s", item.Name, suggest.Hint(registry.Names(), item.Name))).WithLine(item.Line)
	}

	op, ok := syntaxToComp[item.Op]
	if !ok {
		return Triplet{}, 0, policyerrors.New(policyerrors.KindUnknownOperator, "", item.Name,
			"unexpected operator").WithLine(item.Line)
	}

	var mask attrmask.Mask
	if desc.IsStatus {
		if sm == nil {
			return Triplet{}, 0, policyerrors.New(policyerrors.KindConstraintViolated, "", item.Name,
				fmt.Sprintf("%q criteria is not expected in this context", item.Name)).WithLine(item.Line)
		}
		mask = mask.Add(attrmask.StatusBit(sm.Index()))
	} else {
		mask = mask.Add(desc.BaseAttrMask)
	}

	t := Triplet{Criterion: desc.Name, Op: op}

	switch desc.ValueType {
	case criteria.ValueString:
		if err := compileString(item, desc, sm, &t, diags); err != nil {
			return Triplet{}, 0, err
		}
	case criteria.ValueSize:
		v, err := valueparse.Size(item.Value)
		if err != nil {
			return Triplet{}, 0, parseErr(item, fmt.Sprintf("%s criteria: invalid format for size: %q", item.Name, item.Value))
		}
		if desc.Flags.Has(scalar.FlagNotNull) && v == 0 {
			return Triplet{}, 0, constraintErr(item, "null value not allowed")
		}
		t.Value.Kind = ValueKindSize
		t.Value.Size = v
	case criteria.ValueInt:
		v, err := valueparse.Int(item.Value)
		if err != nil {
			return Triplet{}, 0, parseErr(item, fmt.Sprintf("%s criteria: integer expected: %q", item.Name, item.Value))
		}
		if desc.Flags.Has(scalar.FlagPositive) && v < 0 {
			return Triplet{}, 0, constraintErr(item, "positive value expected")
		}
		if desc.Flags.Has(scalar.FlagNotNull) && v == 0 {
			return Triplet{}, 0, constraintErr(item, "null value not allowed")
		}
		t.Value.Kind = ValueKindInt
		t.Value.Int = v
	case criteria.ValueDuration:
		v, err := valueparse.Duration(item.Value)
		if err != nil {
			return Triplet{}, 0, parseErr(item, fmt.Sprintf("%s criteria: duration expected: %q", item.Name, item.Value))
		}
		if desc.Flags.Has(scalar.FlagPositive) && v < 0 {
			return Triplet{}, 0, constraintErr(item, "positive value expected")
		}
		if desc.Flags.Has(scalar.FlagNotNull) && v == 0 {
			return Triplet{}, 0, constraintErr(item, "null value not allowed")
		}
		t.Value.Kind = ValueKindDuration
		t.Value.Duration = v
	case criteria.ValueType_:
		ft := valueparse.ParseFileType(item.Value)
		if ft == valueparse.TypeNone {
			return Triplet{}, 0, constraintErr(item,
				"illegal condition on type: file, directory, symlink, chr, blk, fifo or sock expected")
		}
		t.Value.Kind = ValueKindType
		t.Value.Type = ft
	default:
		return Triplet{}, 0, policyerrors.New(policyerrors.KindUnknownOperator, "", item.Name,
			fmt.Sprintf("unsupported criteria type for %s", item.Name)).WithLine(item.Line)
	}

	if !desc.Flags.Has(scalar.FlagComparable) && t.Op != CompEq && t.Op != CompNe && t.Op != CompLike && t.Op != CompUnlike {
		return Triplet{}, 0, policyerrors.New(policyerrors.KindUnknownOperator, "", item.Name,
			fmt.Sprintf("illegal comparator for %s criteria: == or != expected", item.Name)).WithLine(item.Line)
	}

	return t, mask, nil
}

func compileString(item *syntaxtree.Item, desc criteria.Descriptor, sm statusmgr.StatusManager, t *Triplet, diags *[]unknownitem.Warning) error {
	value := item.Value

	if desc.Flags.Has(scalar.FlagNotEmpty) && value == "" {
		return constraintErr(item, fmt.Sprintf("non-empty string expected for %s parameter", item.Name))
	}
	if desc.Flags.Has(scalar.FlagNoSlash) && containsSlash(value) {
		return constraintErr(item, fmt.Sprintf("no slash (/) expected in %s parameter", item.Name))
	}

	hasWildcards := containsWildcards(value)
	if hasWildcards {
		if desc.Flags.Has(scalar.FlagNoWildcards) {
			return constraintErr(item, fmt.Sprintf("no wildcard is allowed in %s criteria", item.Name))
		}
		if t.Op == CompEq {
			t.Op = CompLike
		} else if t.Op == CompNe {
			t.Op = CompUnlike
		}
	}

	t.PreRewrite = value
	t.Value.Str = value

	switch {
	case desc.IsXattr:
		key := xattrKey(item.Name)
		t.XattrName = key
	case desc.IsStatus:
		if sm != nil && value != "" && !sm.IsValidStatus(value) {
			return constraintErr(item, fmt.Sprintf(
				"invalid status %q for %q status manager: allowed values are %s",
				value, sm.Name(), statusmgr.AllowedStatusString(sm)))
		}
	case containsAnyLevel(value):
		if !desc.Flags.Has(scalar.FlagAllowAnyDepth) {
			return constraintErr(item, fmt.Sprintf("double star wildcard (**) not expected in %s parameter", item.Name))
		}
		rewritten, warning, err := RewriteAnyLevel(value)
		if err != nil {
			return policyerrors.Wrap(policyerrors.KindMalformedPattern, "", item.Name, err).WithLine(item.Line)
		}
		t.Value.Str = rewritten
		t.Flags |= FlagAnyLevel
		if warning != "" && diags != nil {
			*diags = append(*diags, unknownitem.Warning{
				Block:   "",
				Name:    item.Name,
				Line:    item.Line,
				Message: fmt.Sprintf("Config Check: %s, line %d", warning, item.Line),
			})
		}
	}

	return nil
}

func xattrKey(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return ""
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

func containsWildcards(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

func containsAnyLevel(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '*' && s[i+1] == '*' {
			return true
		}
	}
	return false
}

func parseErr(item *syntaxtree.Item, detail string) error {
	return policyerrors.New(policyerrors.KindTypeMismatch, "", item.Name, detail).WithLine(item.Line)
}

func constraintErr(item *syntaxtree.Item, detail string) error {
	return policyerrors.New(policyerrors.KindConstraintViolated, "", item.Name, detail).WithLine(item.Line)
}
