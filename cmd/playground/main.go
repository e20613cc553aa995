package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"shader-playground/internal/commands"
)

func main() {
	reg := newRegistry()
	if err := reg.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "playground:", err)
		if errors.Is(err, commands.ErrUnknownCommand) {
			fmt.Fprintln(os.Stderr, "commands:")
			reg.PrintUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

// newRegistry wires every subcommand. run is the default so a bare invocation opens the window.
func newRegistry() *commands.Registry {
	reg := commands.NewRegistry("run")

	var run runOptions
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&run.config, "config", "", "engine preferences file (default config/playground.json)")
	fs.StringVar(&run.variant, "variant", "", "built-in scene to open (textured, lit, silhouette)")
	fs.StringVar(&run.scene, "scene", "", "YAML scene file; overrides -variant")
	fs.StringVar(&run.shaderDir, "shaders", "", "directory with editable shader sources")
	fs.BoolVar(&run.hot, "hot", false, "recompile the pyramid shader when its sources change")
	fs.BoolVar(&run.refresh, "refresh", false, "clear the texture download cache first")
	fs.BoolVar(&run.save, "save", false, "persist the effective preferences")
	reg.Register("run", "open the playground window", fs, func([]string) error {
		return runPlayground(run)
	})

	var dump dumpOptions
	fs = flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.Float64Var(&dump.width, "width", 2, "base edge length")
	fs.Float64Var(&dump.height, "height", 2, "apex height")
	fs.StringVar(&dump.policy, "policy", "full", "vertex policy: full (faceted) or minimal (shared)")
	fs.BoolVar(&dump.capped, "capped", false, "emit the base (default from -policy)")
	fs.BoolVar(&dump.uvs, "uvs", false, "emit texture coordinates (default from -policy)")
	fs.StringVar(&dump.format, "format", "yaml", "output format: yaml or json")
	dumpFlags := fs
	reg.Register("dump", "print the generated pyramid buffers", fs, func([]string) error {
		dump.set = make(map[string]bool)
		dumpFlags.Visit(func(f *flag.Flag) { dump.set[f.Name] = true })
		return runDump(os.Stdout, dump)
	})

	var sh shadersOptions
	fs = flag.NewFlagSet("shaders", flag.ContinueOnError)
	fs.StringVar(&sh.dir, "dir", "", "validate with sources overridden from this directory")
	fs.StringVar(&sh.export, "export", "", "write the built-in sources into this directory")
	reg.Register("shaders", "validate the shader contracts", fs, func([]string) error {
		return runShaders(os.Stdout, sh)
	})
	return reg
}
