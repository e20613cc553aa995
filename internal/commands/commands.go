package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ErrUnknownCommand is returned by Execute for a name that was never registered.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and receives the remaining arguments.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds     map[string]*Command
	fallback string
}

// NewRegistry returns an empty command registry. fallback names the command Execute runs
// when the first argument is missing or is a flag.
func NewRegistry(fallback string) *Registry {
	return &Registry{cmds: make(map[string]*Command), fallback: fallback}
}

// Register adds a subcommand. fs is that command's FlagSet; run is called after
// fs.Parse(args[1:]) succeeds. The FlagSet is switched to ContinueOnError so parse
// failures come back from Execute instead of exiting.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	fs.Init(name, flag.ContinueOnError)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		if r.fallback == "" {
			return fmt.Errorf("missing subcommand")
		}
		args = append([]string{r.fallback}, args...)
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return err
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// PrintUsage writes one line per command followed by its flags.
func (r *Registry) PrintUsage(w io.Writer) {
	for _, name := range r.Names() {
		cmd := r.cmds[name]
		fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Usage)
		cmd.FlagSet.SetOutput(w)
		cmd.FlagSet.PrintDefaults()
	}
}
