package cli

import "slices"

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. Errors that are not ExitCoders are treated as usage errors.
type ArgsFunc func(args []string) error

// Command is a node in a command tree. A command with children and no Run only groups its children.
type Command struct {
	// Name is the token that selects this command (ex: "detect" in "minedit detect").
	Name    string
	Aliases []string

	// Use describes positional args in the usage line (ex: "<file>..."). Defaults to "[args]".
	Use string

	Short   string // one line, shown in the parent's command list
	Long    string
	Example string

	Args ArgsFunc
	Run  RunFunc

	parent          *Command
	children        []*Command
	localFlags      *FlagSet
	persistentFlags *FlagSet
}

// AddCommand attaches children to c. It panics if a child is nil, unnamed, or already attached.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		switch {
		case child == nil:
			panic("cli: AddCommand called with nil child")
		case child.parent != nil:
			panic("cli: " + child.Name + " already has a parent")
		case child.Name == "":
			panic("cli: AddCommand called with an unnamed child")
		}
		child.parent = c
		c.children = append(c.children, child)
	}
}

// Commands returns a copy of c's children.
func (c *Command) Commands() []*Command {
	return slices.Clone(c.children)
}

// Flags returns the flags that apply to c only.
func (c *Command) Flags() *FlagSet {
	if c.localFlags == nil {
		c.localFlags = newFlagSet()
	}
	return c.localFlags
}

// PersistentFlags returns the flags that apply to c and all its descendants.
func (c *Command) PersistentFlags() *FlagSet {
	if c.persistentFlags == nil {
		c.persistentFlags = newFlagSet()
	}
	return c.persistentFlags
}

func (c *Command) childByToken(token string) *Command {
	for _, child := range c.children {
		if child.Name == token || slices.Contains(child.Aliases, token) {
			return child
		}
	}
	return nil
}

func (c *Command) pathFromRoot() []*Command {
	var path []*Command
	for cur := c; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
