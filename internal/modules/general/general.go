// Package general is a concrete ModuleDescriptor exercising the plain
// scalar-parameter path of the driver end-to-end: a single "General"
// block of key/value items, no boolean or set expressions involved.
package general

import (
	"github.com/rbh-policy/policyd/internal/moduleconfig"
	"github.com/rbh-policy/policyd/internal/scalar"
	"github.com/rbh-policy/policyd/internal/syntaxtree"
	"github.com/rbh-policy/policyd/internal/unknownitem"
)

const blockName = "General"

var descriptors = []scalar.Descriptor{
	{Name: "log_file", Kind: scalar.KindString,
		Flags: scalar.FlagMandatory | scalar.FlagNotEmpty | scalar.FlagAbsolutePath | scalar.FlagStdioAllowed},
	{Name: "verbose", Kind: scalar.KindBool},
	{Name: "check_interval", Kind: scalar.KindDuration, Flags: scalar.FlagPositive | scalar.FlagNotNull},
	{Name: "high_watermark", Kind: scalar.KindFloat, Flags: scalar.FlagAllowPctSign | scalar.FlagPositive},
}

// Config is the general module's own configuration value.
type Config struct {
	LogFile       string
	Verbose       bool
	CheckInterval int64 // seconds
	HighWatermark float64
}

// Module owns a Config plus any "Config Check" warnings collected on
// the last Read/Reload.
type Module struct {
	Config   Config
	Warnings []unknownitem.Warning
}

// New returns an empty Module ready to be wired into a ModuleDescriptor
// table via Descriptor.
func New() *Module {
	return &Module{}
}

// Descriptor returns the moduleconfig.Descriptor wiring m's lifecycle
// callbacks; this module is selected unconditionally (ALWAYS).
func (m *Module) Descriptor() moduleconfig.Descriptor {
	return moduleconfig.Descriptor{
		Name:          "General",
		Flags:         moduleconfig.Always,
		SetDefault:    m.setDefault,
		Read:          m.read,
		Reload:        m.reload,
		WriteTemplate: m.writeTemplate,
		WriteDefault:  m.writeDefault,
	}
}

func (m *Module) setDefault() error {
	m.Config = Config{
		LogFile:       "/var/log/policyd/general.log",
		Verbose:       false,
		CheckInterval: 60,
		HighWatermark: 90.0,
	}
	return nil
}

func (m *Module) read(root *syntaxtree.Block, forReload bool) error {
	block := root.FindChild(blockName)
	if block == nil {
		// no General block: defaults already in place from setDefault.
		return nil
	}

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	m.Warnings = unknownitem.Check(block, names, nil)

	logFile, err := scalar.Extract(block, blockName, descriptors[0], nil)
	if err != nil {
		return err
	}
	m.Config.LogFile = logFile.Str

	verbose, err := scalar.Extract(block, blockName, descriptors[1], nil)
	if err != nil {
		return err
	}
	if verbose.Found {
		m.Config.Verbose = verbose.Bool
	}

	interval, err := scalar.Extract(block, blockName, descriptors[2], nil)
	if err != nil {
		return err
	}
	if interval.Found {
		m.Config.CheckInterval = interval.Duration
	}

	hwm, err := scalar.Extract(block, blockName, descriptors[3], nil)
	if err != nil {
		return err
	}
	if hwm.Found {
		m.Config.HighWatermark = hwm.Float
	}

	_ = forReload // every General parameter may be changed on reload
	return nil
}

func (m *Module) reload(root *syntaxtree.Block) error {
	return m.read(root, true)
}

func (m *Module) writeTemplate(p *moduleconfig.Printer) error {
	p.BeginBlock(blockName, "")
	p.Comment("path to the log file ('stdout'/'stderr'/'syslog' also accepted)")
	p.Line("log_file : %q", m.Config.LogFile)
	p.Comment("enable verbose logging")
	p.Line("verbose : %t", m.Config.Verbose)
	p.Comment("interval between periodic checks")
	p.Line("check_interval : %ds", m.Config.CheckInterval)
	p.Comment("storage high watermark, as a percentage")
	p.Line("high_watermark : %g%%", m.Config.HighWatermark)
	p.EndBlock()
	return nil
}

func (m *Module) writeDefault(p *moduleconfig.Printer) error {
	p.BeginBlock(blockName, "")
	p.Line("log_file : %q", m.Config.LogFile)
	p.Line("verbose : %t", m.Config.Verbose)
	p.Line("check_interval : %ds", m.Config.CheckInterval)
	p.Line("high_watermark : %g%%", m.Config.HighWatermark)
	p.EndBlock()
	return nil
}
