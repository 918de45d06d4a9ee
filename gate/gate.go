package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Mode distinguishes read access from write access.
type Mode string

const (
	// ModeRead authorizes retrieving an artifact.
	ModeRead Mode = "read"
	// ModeWrite authorizes storing an artifact.
	ModeWrite Mode = "write"
)

// DeniedError is the structured rejection returned by Authorize. Its message
// is written for the model, not the operator: it names the offending resource
// and enumerates the permitted choices.
type DeniedError struct {
	Tool     string
	Resource string
	Mode     Mode
	Allowed  []string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("Error: %q not allowed for %s. Choose from: %s",
		e.Resource, e.Mode, strings.Join(e.Allowed, ", "))
}

// Authorizer is the decision contract consumed by tools. Gate is the only
// production implementation; tests substitute counting fakes to assert the
// dispatcher's short-circuit ordering.
type Authorizer interface {
	Authorize(jobID, tool, resource string, mode Mode) error
}

// Gate holds the static read and write allow-sets. It is stateless per call
// and safe for concurrent use.
type Gate struct {
	read  map[string]struct{}
	write map[string]struct{}
}

// New constructs a Gate from the allowed read and write resource names.
func New(read, write []string) *Gate {
	g := &Gate{
		read:  make(map[string]struct{}, len(read)),
		write: make(map[string]struct{}, len(write)),
	}
	for _, r := range read {
		g.read[r] = struct{}{}
	}
	for _, w := range write {
		g.write[w] = struct{}{}
	}
	return g
}

// Authorize reports whether the named tool may access resource in the given
// mode. It returns nil when allowed and a *DeniedError otherwise. The jobID
// is accepted for auditability but does not influence the decision; all
// resource access is scoped under the job namespace by the artifact store.
func (g *Gate) Authorize(jobID, tool, resource string, mode Mode) error {
	set := g.read
	if mode == ModeWrite {
		set = g.write
	}
	if _, ok := set[resource]; ok {
		return nil
	}
	return &DeniedError{Tool: tool, Resource: resource, Mode: mode, Allowed: g.allowed(mode)}
}

// AllowedRead returns the sorted read allow-list.
func (g *Gate) AllowedRead() []string { return sortedKeys(g.read) }

// AllowedWrite returns the sorted write allow-list.
func (g *Gate) AllowedWrite() []string { return sortedKeys(g.write) }

func (g *Gate) allowed(mode Mode) []string {
	if mode == ModeWrite {
		return g.AllowedWrite()
	}
	return g.AllowedRead()
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
