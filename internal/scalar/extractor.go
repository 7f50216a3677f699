// Package scalar implements the generic scalar-item extractor
// (component B): given a block and a parameter descriptor, locate the
// named item, dispatch to the right valueparse function, enforce
// constraint flags in order, and normalize the result.
package scalar

import (
	"strings"

	"github.com/rbh-policy/policyd/internal/policyerrors"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/valueparse"
)

// Kind is the declared type of a parameter descriptor's target.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindInt64 // unsigned 64-bit with SI suffix
	KindFloat
	KindSize
	KindDuration
	KindType
)

// Descriptor describes one scalar parameter the extractor should pull
// out of a block.
type Descriptor struct {
	Name  string
	Kind  Kind
	Flags Flags
}

// Result carries the normalized, typed value extracted for a
// Descriptor. Only the field matching Kind is meaningful.
type Result struct {
	Found     bool
	Str       string
	Bool      bool
	Int       int32
	Uint64    uint64
	Float     float64
	Size      uint64
	Duration  int64
	FileType  valueparse.FileType
	ExtraArgs []string
}

// Extract locates d.Name in block (case-insensitively), parses its
// value per d.Kind, enforces d.Flags in the documented order, and
// returns the normalized Result. extrasSink, if non-nil, receives any
// trailing "extra" tokens on the item; if nil and the item carries
// extra tokens, that is itself a ConstraintViolated error.
func Extract(block *syntaxtree.Block, blockName string, d Descriptor, extrasSink *[]string) (Result, error) {
	item := block.FindItem(d.Name)
	if item == nil {
		if d.Flags.Has(FlagMandatory) {
			return Result{}, policyerrors.New(policyerrors.KindMissingMandatory, blockName, d.Name,
				"mandatory parameter is missing").WithLine(block.Line)
		}
		return Result{Found: false}, nil
	}

	if len(item.ExtraArgs) > 0 {
		if extrasSink == nil {
			return Result{}, policyerrors.New(policyerrors.KindConstraintViolated, blockName, d.Name,
				"unexpected extra arguments").WithLine(item.Line)
		}
		*extrasSink = item.ExtraArgs
	}

	res := Result{Found: true, ExtraArgs: item.ExtraArgs}

	switch d.Kind {
	case KindString:
		res.Str = item.Value
		if err := checkStringFlags(blockName, d, item); err != nil {
			return Result{}, err
		}
		if d.Flags.Has(FlagRemoveFinalSlash) {
			res.Str = RemoveFinalSlash(res.Str)
		}
	case KindBool:
		v, err := valueparse.Bool(item.Value)
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		res.Bool = v
	case KindInt:
		v, err := valueparse.Int(item.Value)
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		if d.Flags.Has(FlagPositive) && v < 0 {
			return Result{}, constraintViolated(blockName, d, item, "positive value expected")
		}
		if d.Flags.Has(FlagNotNull) && v == 0 {
			return Result{}, constraintViolated(blockName, d, item, "null value not allowed")
		}
		res.Int = v
	case KindInt64:
		v, err := valueparse.UintSI(item.Value)
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		if d.Flags.Has(FlagNotNull) && v == 0 {
			return Result{}, constraintViolated(blockName, d, item, "null value not allowed")
		}
		res.Uint64 = v
	case KindFloat:
		v, err := valueparse.Float(item.Value, d.Flags.Has(FlagAllowPctSign))
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		if d.Flags.Has(FlagPositive) && v < 0 {
			return Result{}, constraintViolated(blockName, d, item, "positive value expected")
		}
		if d.Flags.Has(FlagNotNull) && v == 0 {
			return Result{}, constraintViolated(blockName, d, item, "null value not allowed")
		}
		res.Float = v
	case KindSize:
		v, err := valueparse.Size(item.Value)
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		if d.Flags.Has(FlagNotNull) && v == 0 {
			return Result{}, constraintViolated(blockName, d, item, "null value not allowed")
		}
		// POSITIVE on an unsigned size is vacuous (resolved Open
		// Question) and is deliberately not checked here.
		res.Size = v
	case KindDuration:
		v, err := valueparse.Duration(item.Value)
		if err != nil {
			return Result{}, typeMismatch(blockName, d, item, err)
		}
		if d.Flags.Has(FlagPositive) && v < 0 {
			return Result{}, constraintViolated(blockName, d, item, "positive value expected")
		}
		if d.Flags.Has(FlagNotNull) && v == 0 {
			return Result{}, constraintViolated(blockName, d, item, "null value not allowed")
		}
		res.Duration = v
	case KindType:
		t := valueparse.ParseFileType(item.Value)
		if t == valueparse.TypeNone {
			return Result{}, constraintViolated(blockName, d, item,
				"illegal condition on type: file, directory, symlink, chr, blk, fifo or sock expected")
		}
		res.FileType = t
	}

	return res, nil
}

func checkStringFlags(blockName string, d Descriptor, item *syntaxtree.Item) error {
	value := item.Value

	if (d.Flags.Has(FlagNotEmpty) || d.Flags.Has(FlagNotNull)) && value == "" {
		return constraintViolated(blockName, d, item, "non-empty string expected")
	}
	if d.Flags.Has(FlagNoSlash) && strings.Contains(value, "/") {
		return constraintViolated(blockName, d, item, "no slash (/) expected")
	}

	// A stdio name short-circuits every remaining check (absolute path,
	// no-wildcards, mail), matching GetStringParam's early return.
	if d.Flags.Has(FlagStdioAllowed) && (value == "stdout" || value == "stderr" || value == "syslog") {
		return nil
	}

	if d.Flags.Has(FlagAbsolutePath) && !strings.HasPrefix(value, "/") {
		return constraintViolated(blockName, d, item, "absolute path expected")
	}
	if d.Flags.Has(FlagNoWildcards) && strings.ContainsAny(value, "*?[") {
		return constraintViolated(blockName, d, item, "no wildcard is allowed")
	}
	if d.Flags.Has(FlagMail) {
		if err := checkMail(value); err != nil {
			return constraintViolated(blockName, d, item, err.Error())
		}
	}

	return nil
}

func checkMail(value string) error {
	at := strings.Count(value, "@")
	if at != 1 {
		return errMail
	}
	parts := strings.SplitN(value, "@", 2)
	if parts[0] == "" || parts[1] == "" {
		return errMail
	}
	return nil
}

var errMail = mailErr{}

type mailErr struct{}

func (mailErr) Error() string { return "invalid mail address" }

// RemoveFinalSlash strips one trailing '/' from s, unless s is exactly
// "/" (the root is never stripped). Extract applies it to a string value
// carrying FlagRemoveFinalSlash after every other string check has run
// on the original value.
func RemoveFinalSlash(s string) string {
	if s == "/" {
		return s
	}
	return strings.TrimSuffix(s, "/")
}

func typeMismatch(blockName string, d Descriptor, item *syntaxtree.Item, err error) error {
	return policyerrors.Wrap(policyerrors.KindTypeMismatch, blockName, d.Name, err).WithLine(item.Line)
}

func constraintViolated(blockName string, d Descriptor, item *syntaxtree.Item, detail string) error {
	return policyerrors.New(policyerrors.KindConstraintViolated, blockName, d.Name, detail).WithLine(item.Line)
}
