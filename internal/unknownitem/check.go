// Package unknownitem implements the unknown-item checker (component
// G): for each child of a block, compares its name (or sub-block name)
// case-insensitively against an allow-list and warns — never errors —
// on anything unmatched, attaching a "did you mean" hint when a close
// name exists.
package unknownitem

import (
	"fmt"
	"strings"

	"github.com/rbh-policy/policyd/internal/suggest"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

// Warning is one unmatched item or sub-block, tagged "Config Check" per
// the diagnostic format.
type Warning struct {
	Block   string
	Name    string
	Line    int
	Message string
}

// Check compares every item and child of block against allowedItems /
// allowedBlocks (both case-insensitive) and returns a Warning for each
// unmatched one.
func Check(block *syntaxtree.Block, allowedItems, allowedBlocks []string) []Warning {
	var warnings []Warning

	for _, it := range block.Items {
		if containsFold(allowedItems, it.Name) {
			continue
		}
		warnings = append(warnings, Warning{
			Block: block.Name, Name: it.Name, Line: it.Line,
			Message: fmt.Sprintf("Config Check: unexpected parameter '%s' in block '%s'%s",
				it.Name, block.Name, suggest.Hint(allowedItems, it.Name)),
		})
	}

	for _, c := range block.Children {
		if containsFold(allowedBlocks, c.Name) {
			continue
		}
		warnings = append(warnings, Warning{
			Block: block.Name, Name: c.Name, Line: c.Line,
			Message: fmt.Sprintf("Config Check: unexpected sub-block '%s' in block '%s'%s",
				c.Name, block.Name, suggest.Hint(allowedBlocks, c.Name)),
		})
	}

	return warnings
}

func containsFold(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
