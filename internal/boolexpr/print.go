package boolexpr

import (
	"fmt"
	"strings"

	"github.com/rbh-policy/policyd/internal/triplet"
)

// PrintCondition renders a single triplet as "<crit><op><value>" with no
// separator of its own (only the LIKE/UNLIKE tokens from OpToString
// carry surrounding spaces), formatting the value according to the triplet's declared type:
// quoted string, "10.00 MB"-style size, "2d3h"-style duration, bare
// integer, file-type token, or "xattr.<name>" form for xattr criteria.
func PrintCondition(t *triplet.Triplet) string {
	crit := t.Criterion
	if t.XattrName != "" {
		crit = fmt.Sprintf("xattr.%s", t.XattrName)
	}
	return fmt.Sprintf("%s%s%s", crit, OpToString(t.Op), formatValue(t))
}

func formatValue(t *triplet.Triplet) string {
	switch t.Value.Kind {
	case triplet.ValueKindSize:
		return formatSize(t.Value.Size)
	case triplet.ValueKindDuration:
		return formatDuration(t.Value.Duration)
	case triplet.ValueKindInt:
		return fmt.Sprintf("%d", t.Value.Int)
	case triplet.ValueKindType:
		return string(t.Value.Type)
	default:
		return fmt.Sprintf("%q", t.Value.Str)
	}
}

func formatSize(sz uint64) string {
	const unit = 1024.0
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	f := float64(sz)
	idx := 0
	for f >= unit && idx < len(units)-1 {
		f /= unit
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%.0f %s", f, units[idx])
	}
	return fmt.Sprintf("%.2f %s", f, units[idx])
}

func formatDuration(seconds int64) string {
	if seconds == 0 {
		return "0s"
	}
	units := []struct {
		suffix string
		secs   int64
	}{
		{"y", 365 * 24 * 3600},
		{"w", 7 * 24 * 3600},
		{"d", 24 * 3600},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	var b strings.Builder
	remaining := seconds
	for _, u := range units {
		if remaining >= u.secs {
			n := remaining / u.secs
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
			remaining -= n * u.secs
		}
	}
	return b.String()
}

// Print is the preorder BoolExpr2str walk: UNARY NOT renders as
// "NOT (...)", BINARY as "(...) OR (...)" or "(...) AND (...)",
// CONDITION defers to PrintCondition. A UNARY operator other than NOT
// is rendered as an error marker rather than panicking, since Print is
// a diagnostic/template-writing utility, not a parser.
func Print(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindCondition:
		return PrintCondition(n.Triplet)
	case KindUnary:
		if n.Op != OpNot {
			return fmt.Sprintf("<invalid unary operator %q>", n.Op)
		}
		return fmt.Sprintf("NOT (%s)", Print(n.Child))
	case KindBinary:
		op := "AND"
		if n.Op == OpOr {
			op = "OR"
		}
		return fmt.Sprintf("(%s) %s (%s)", Print(n.Left), op, Print(n.Right))
	default:
		return "<invalid node>"
	}
}
