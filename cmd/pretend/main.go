// Command pretend generates client implementations for interfaces annotated
// with //pretend:: comments.
//
//	//go:generate pretend gen .
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/toyz/pretend/internal/cli"
	"github.com/toyz/pretend/internal/utils"
)

// Globals are accepted by every command
type Globals struct {
	Module  string `help:"Module path used for import paths (defaults to the go.mod module)."`
	Verbose bool   `help:"Enable verbose output and detailed error reporting." short:"v"`
	Quiet   bool   `help:"Only show errors." short:"q"`
	NoColor bool   `help:"Disable colored output." name:"no-color"`
	Config  string `help:"Directory holding .pretend.yaml." default:"." type:"path"`

	stdout io.Writer
	stderr io.Writer
}

type CLI struct {
	Globals

	Gen     GenCmd     `cmd:"" help:"Generate autogen_pretend.go for every package with clients."`
	Check   CheckCmd   `cmd:"" help:"Fail when a generated file is missing or out of date."`
	Clean   CleanCmd   `cmd:"" help:"Delete generated files."`
	OpenAPI OpenAPICmd `cmd:"" name:"openapi" help:"Describe every client as an OpenAPI 3 document."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type GenCmd struct {
	Dirs []string `arg:"" optional:"" default:"./..." help:"Directories to scan; dir/... scans recursively."`
	Raw  bool     `help:"Skip goimports formatting of the generated files."`
}

func (c *GenCmd) Run(g *Globals) error {
	config, err := g.config(c.Dirs)
	if err != nil {
		return err
	}
	config.Raw = c.Raw
	return g.run(config, func(gen *cli.Generator) error {
		return gen.Run(config)
	})
}

type CheckCmd struct {
	Dirs []string `arg:"" optional:"" default:"./..." help:"Directories to scan; dir/... scans recursively."`
}

func (c *CheckCmd) Run(g *Globals) error {
	config, err := g.config(c.Dirs)
	if err != nil {
		return err
	}
	config.Check = true
	return g.run(config, func(gen *cli.Generator) error {
		return gen.Run(config)
	})
}

type CleanCmd struct {
	Dirs []string `arg:"" optional:"" default:"./..." help:"Directories to clean; dir/... cleans recursively."`
}

func (c *CleanCmd) Run(g *Globals) error {
	config, err := g.config(c.Dirs)
	if err != nil {
		return err
	}
	return g.run(config, func(gen *cli.Generator) error {
		_, err := gen.Clean(config)
		return err
	})
}

type OpenAPICmd struct {
	Dirs    []string `arg:"" optional:"" default:"./..." help:"Directories to scan; dir/... scans recursively."`
	Output  string   `help:"Write the document to this file instead of stdout." short:"o"`
	Format  string   `help:"yaml or json."`
	Title   string   `help:"Document title."`
	Version string   `help:"Document version." name:"doc-version"`
	Server  string   `help:"Server URL recorded in the document."`
}

func (c *OpenAPICmd) Run(g *Globals) error {
	config, err := g.config(c.Dirs)
	if err != nil {
		return err
	}

	flags := cli.OpenAPIConfig{Title: c.Title, Version: c.Version, Format: c.Format, Server: c.Server, Output: c.Output}
	file := config.OpenAPI
	config.OpenAPI = flags
	config.Apply(&cli.FileConfig{Output: file.Output, OpenAPI: file})

	return g.run(config, func(gen *cli.Generator) error {
		return gen.ExportOpenAPI(config, g.stdout)
	})
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.stdout, Version())
	return nil
}

// config merges the flags with .pretend.yaml
func (g *Globals) config(dirs []string) (cli.Config, error) {
	config := cli.Config{
		Directories: dirs,
		ModuleName:  g.Module,
		Verbose:     g.Verbose,
	}
	fc, err := cli.LoadFileConfig(g.Config)
	if err != nil {
		return config, err
	}
	config.Apply(fc)
	return config, nil
}

func (g *Globals) diagnostics(config cli.Config) *utils.DiagnosticSystem {
	var d *utils.DiagnosticSystem
	switch {
	case g.Quiet:
		d = utils.NewQuietDiagnostics()
	case config.Verbose:
		d = utils.NewVerboseDiagnostics()
	default:
		d = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	d.SetOutput(g.stdout, g.stderr)
	return d
}

// run executes fn and reports its failure in full
func (g *Globals) run(config cli.Config, fn func(*cli.Generator) error) error {
	gen := cli.NewGenerator(config, g.diagnostics(config))
	gen.Reporter().SetOutput(g.stderr)
	if err := fn(gen); err != nil {
		gen.Reporter().ReportError(err)
		return errReported
	}
	return nil
}

// errReported marks failures that were already printed
var errReported = errors.New("pretend failed")

func run(args []string, stdout, stderr io.Writer) int {
	c := &CLI{}
	c.stdout = stdout
	c.stderr = stderr

	exitCode := -1
	parser, err := kong.New(c,
		kong.Name("pretend"),
		kong.Description("Declarative HTTP client bindings: generate implementations for //pretend::client interfaces."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.Bind(&c.Globals),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	if c.NoColor {
		utils.DisableColors()
	}

	if err := ctx.Run(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "pretend: %s\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], color.Output, color.Error))
}
