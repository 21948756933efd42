package shell

import (
	"sort"

	"github.com/safwanadnan/termfolio"
)

// Command is one entry of the command registry.
type Command struct {
	Name    string
	Aliases []string
	Summary string
	// NoRecord commands leave no transcript record behind.
	NoRecord bool
	Run      func(inv *Invocation) *termfolio.Output
}

// Registry maps command names and aliases to commands.
type Registry struct {
	commands []*Command
	index    map[string]*Command
}

// NewRegistry builds a registry. Later registrations of a name replace
// earlier ones.
func NewRegistry(cmds ...*Command) *Registry {
	r := &Registry{index: make(map[string]*Command)}
	for _, c := range cmds {
		r.Register(c)
	}
	return r
}

// Register adds c under its name and aliases.
func (r *Registry) Register(c *Command) {
	replaced := false
	for i, old := range r.commands {
		if old.Name == c.Name {
			r.commands[i] = c
			replaced = true
		}
	}
	if !replaced {
		r.commands = append(r.commands, c)
	}
	r.index[c.Name] = c
	for _, a := range c.Aliases {
		r.index[a] = c
	}
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.index[name]
	return c, ok
}

// Names returns every recognized name, aliases included, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.index))
	for name := range r.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help describes the primary commands in registration order.
func (r *Registry) Help() []termfolio.HelpEntry {
	out := make([]termfolio.HelpEntry, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, termfolio.HelpEntry{
			Name:    c.Name,
			Aliases: append([]string(nil), c.Aliases...),
			Summary: c.Summary,
		})
	}
	return out
}
