// Package statusmgr defines the external "status manager" collaborator
// the policy compiler consults only to validate the set of legal
// `status` criterion values and to obtain the manager's attribute-mask
// index; it owns no compilation logic of its own.
package statusmgr

import "strings"

// StatusManager owns a named, bounded set of states for one policy and
// the index used to derive its attribute-mask bit (see
// internal/attrmask.StatusBit).
type StatusManager interface {
	// Name returns the status manager's identifier, used in error
	// messages ("invalid status for '<name>' status manager").
	Name() string
	// Index returns this manager's slot for attrmask.StatusBit.
	Index() int
	// IsValidStatus reports whether s is one of this manager's legal
	// status values. The empty string is always considered valid (it
	// means "status not set yet").
	IsValidStatus(s string) bool
	// AllowedStatuses lists the legal values, for building the
	// "allowed values are ..." portion of an invalid-status error.
	AllowedStatuses() []string
}

// InMemory is a StatusManager backed by a fixed, in-memory status list.
// It is the reference implementation used by internal/modules/migration
// and its tests; a real deployment would back StatusManager with
// whatever plugin actually owns policy state transitions.
type InMemory struct {
	name     string
	index    int
	statuses map[string]struct{}
	ordered  []string
}

// NewInMemory builds an InMemory status manager with the given name,
// mask index, and legal status values.
func NewInMemory(name string, index int, statuses []string) *InMemory {
	m := &InMemory{
		name:     name,
		index:    index,
		statuses: make(map[string]struct{}, len(statuses)),
		ordered:  append([]string(nil), statuses...),
	}
	for _, s := range statuses {
		m.statuses[s] = struct{}{}
	}
	return m
}

func (m *InMemory) Name() string  { return m.name }
func (m *InMemory) Index() int    { return m.index }

func (m *InMemory) IsValidStatus(s string) bool {
	if s == "" {
		return true
	}
	_, ok := m.statuses[s]
	return ok
}

func (m *InMemory) AllowedStatuses() []string {
	return m.ordered
}

// AllowedStatusString joins AllowedStatuses with ", ", matching the
// original compiler's allowed_status_str helper.
func AllowedStatusString(m StatusManager) string {
	return strings.Join(m.AllowedStatuses(), ", ")
}
