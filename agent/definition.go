package agent

// Definition describes a named agent role. All fields are fixed at
// construction; the turn engine never mutates a definition.
type Definition struct {
	// Name is the external identifier used in handoff targets and results.
	Name string
	// Instructions is the opaque system prompt for this role.
	Instructions string
	// Tools lists the tool names this role may call.
	Tools []string
	// Handoffs lists the agent names this role may hand control to.
	Handoffs []string
}

// CanUse reports whether the role declares the named tool.
func (d *Definition) CanUse(tool string) bool {
	for _, t := range d.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// CanHandoffTo reports whether the role declares target as reachable.
func (d *Definition) CanHandoffTo(target string) bool {
	for _, h := range d.Handoffs {
		if h == target {
			return true
		}
	}
	return false
}
