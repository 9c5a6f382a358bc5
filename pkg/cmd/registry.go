package cmd

// Registry stores commands in priority order. Match walks them in that order,
// so the first registered command whose trigger fits wins.
type Registry struct {
	commands []Command
	byName   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register appends a command at the lowest priority. Registering a name
// again replaces the command in place.
func (r *Registry) Register(c Command) {
	if i, ok := r.byName[c.Name()]; ok {
		r.commands[i] = c
		return
	}
	r.byName[c.Name()] = len(r.commands)
	r.commands = append(r.commands, c)
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	if i, ok := r.byName[name]; ok {
		return r.commands[i]
	}
	return nil
}

// GetAll returns all registered commands in priority order.
func (r *Registry) GetAll() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Match returns the highest-priority command whose trigger matches text, or nil.
func (r *Registry) Match(text string) Command {
	for _, c := range r.commands {
		if c.Trigger().Match(text) {
			return c
		}
	}
	return nil
}
