package cmd

// Middleware wraps a command (e.g. logging, rate limits, guards).
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list ends up outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}
