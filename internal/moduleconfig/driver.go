package moduleconfig

import (
	"fmt"
	"log"

	"github.com/rbh-policy/policyd/internal/syntaxtree"
)

const reloadTag = "ReloadConfig"

// ReadConfig walks table against root: for each selected module it
// calls SetDefault then Read. The first module to fail aborts the
// walk; the remaining modules are left untouched.
func ReadConfig(table []Descriptor, root *syntaxtree.Block, mask ModuleFlag, forReload bool) error {
	for i := range table {
		m := &table[i]
		if !m.Flags.Selected(mask) {
			continue
		}
		if m.SetDefault != nil {
			if err := m.SetDefault(); err != nil {
				return fmt.Errorf("setting default configuration for module %q: %w", m.Name, err)
			}
		}
		if m.Read != nil {
			if err := m.Read(root, forReload); err != nil {
				return fmt.Errorf("reading configuration for module %q: %w", m.Name, err)
			}
		}
	}
	return nil
}

// ReloadConfig walks table against root, calling Reload on every
// selected module. Unlike ReadConfig it never short-circuits: every
// module gets a chance, and the last error encountered (if any) is
// returned after the full walk, with a per-module log line reporting
// success or failure. Both lines go through the standard log package,
// which has no severity levels; only the wording tells them apart.
func ReloadConfig(table []Descriptor, root *syntaxtree.Block, mask ModuleFlag) error {
	var lastErr error
	for i := range table {
		m := &table[i]
		if !m.Flags.Selected(mask) || m.Reload == nil {
			continue
		}
		if err := m.Reload(root); err != nil {
			log.Printf("%s: error reloading configuration for module %q: %v", reloadTag, m.Name, err)
			lastErr = fmt.Errorf("reloading configuration for module %q: %w", m.Name, err)
			continue
		}
		log.Printf("%s: configuration of module %q successfully reloaded", reloadTag, m.Name)
	}
	return lastErr
}
