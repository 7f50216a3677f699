// Command policyd is the CLI driver around the policy configuration
// compiler: validating a policy file, watching it for changes, and
// emitting a documented template or the compiled defaults.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rbh-policy/policyd/internal/boolexpr"
	"github.com/rbh-policy/policyd/internal/criteria"
	"github.com/rbh-policy/policyd/internal/modules/fileclasses"
	"github.com/rbh-policy/policyd/internal/modules/general"
	"github.com/rbh-policy/policyd/internal/modules/migration"
	"github.com/rbh-policy/policyd/internal/moduleconfig"
	"github.com/rbh-policy/policyd/internal/statusmgr"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/watch"
)

// buildTable constructs the module table in dependency order: general
// has no dependents, fileclasses must run before migration (which
// resolves target_fileclass references against fileclasses' table).
func buildTable() ([]moduleconfig.Descriptor, *general.Module, *fileclasses.Module, *migration.Module) {
	registry := criteria.NewRegistry()
	sm := statusmgr.NewInMemory("migration", 0, []string{"new", "synchro", "archiving", "archived"})

	g := general.New()
	fc := fileclasses.New(registry, sm)
	mig := migration.New(registry, sm, fc)

	table := []moduleconfig.Descriptor{g.Descriptor(), fc.Descriptor(), mig.Descriptor()}
	return table, g, fc, mig
}

func parseFile(path string) (*syntaxtree.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return syntaxtree.ParseKDL(f)
}

func readConfigFile(path string, mask moduleconfig.ModuleFlag) ([]moduleconfig.Descriptor, error) {
	table, _, _, _ := buildTable()
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if err := moduleconfig.ReadConfig(table, root, mask, false); err != nil {
		return nil, err
	}
	return table, nil
}

func validateCommand(c *cli.Context) error {
	path := c.String("config")
	mask := moduleconfig.ModuleFlag(c.Int("mask"))

	if _, err := readConfigFile(path, mask); err != nil {
		return cli.Exit(fmt.Sprintf("configuration is invalid: %v", err), 1)
	}
	fmt.Fprintf(c.App.Writer, "%s: configuration OK\n", path)
	return nil
}

func watchCommand(c *cli.Context) error {
	path := c.String("config")
	mask := moduleconfig.ModuleFlag(c.Int("mask"))
	debounce := time.Duration(c.Int("debounce-ms")) * time.Millisecond

	table, _, _, _ := buildTable()
	root, err := parseFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := moduleconfig.ReadConfig(table, root, mask, false); err != nil {
		return cli.Exit(fmt.Sprintf("initial configuration is invalid: %v", err), 1)
	}

	pw, err := watch.New(path, debounce, func() error {
		newRoot, err := parseFile(path)
		if err != nil {
			return err
		}
		return moduleconfig.ReloadConfig(table, newRoot, mask)
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	pw.Start()
	defer pw.Stop()

	fmt.Fprintf(c.App.Writer, "watching %s for changes, ctrl-c to stop\n", path)
	select {}
}

func setAllDefaults(table []moduleconfig.Descriptor) error {
	for _, m := range table {
		if m.SetDefault == nil {
			continue
		}
		if err := m.SetDefault(); err != nil {
			return fmt.Errorf("setting default configuration for module %q: %w", m.Name, err)
		}
	}
	return nil
}

func templateCommand(c *cli.Context) error {
	table, _, _, _ := buildTable()
	if err := setAllDefaults(table); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return moduleconfig.WriteTemplate(table, c.App.Writer)
}

func defaultsCommand(c *cli.Context) error {
	table, _, _, _ := buildTable()
	if err := setAllDefaults(table); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return moduleconfig.WriteDefault(table, c.App.Writer)
}

func explainCommand(c *cli.Context) error {
	path := c.String("config")
	mask := moduleconfig.ModuleFlag(c.Int("mask"))

	table, g, fc, mig := buildTable()

	root, err := parseFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := moduleconfig.ReadConfig(table, root, mask, false); err != nil {
		return cli.Exit(fmt.Sprintf("configuration is invalid: %v", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "general: log_file=%s verbose=%t\n", g.Config.LogFile, g.Config.Verbose)
	fmt.Fprintf(c.App.Writer, "file classes:\n%s", fc.Table.String())
	for _, rule := range mig.Rules {
		fmt.Fprintf(c.App.Writer, "migration rule %q: %s\n", rule.Name, boolexpr.Print(rule.Predicate))
	}
	return nil
}

func docsCommand(app *cli.App) cli.ActionFunc {
	return func(c *cli.Context) error {
		man, err := app.ToMan()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprint(c.App.Writer, man)
		return nil
	}
}

// newApp builds the cli.App, factored out of main so tests can drive
// it with app.Run(args) without touching os.Args or os.Exit.
func newApp() *cli.App {
	app := &cli.App{
		Name:  "policyd",
		Usage: "policy configuration compiler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "policy configuration file path",
				Value:   "policy.kdl",
			},
			&cli.IntFlag{
				Name:  "mask",
				Usage: "module selection bitmask (beyond ALWAYS modules)",
				Value: int(migration.MaskMigration),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "parse and validate the configuration file",
				Action: validateCommand,
			},
			{
				Name:  "watch",
				Usage: "watch the configuration file and reload on change",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "debounce-ms", Value: 300, Usage: "debounce interval in milliseconds"},
				},
				Action: watchCommand,
			},
			{
				Name:   "template",
				Usage:  "write a documented configuration template",
				Action: templateCommand,
			},
			{
				Name:   "defaults",
				Usage:  "write the default configuration values",
				Action: defaultsCommand,
			},
			{
				Name:   "explain",
				Usage:  "parse the configuration file and print what it compiled to",
				Action: explainCommand,
			},
		},
	}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "docs",
		Usage:  "render the manual page",
		Action: docsCommand(app),
	})
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "policyd: %v\n", err)
		os.Exit(1)
	}
}
