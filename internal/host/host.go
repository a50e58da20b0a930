package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tyqualters/voidtools/internal/netcap"
	lua "github.com/yuin/gopher-lua"
)

// ErrExecution wraps parse errors and unhandled script errors.
var ErrExecution = errors.New("host: script execution failed")

// ArgumentsGlobal is the global holding the script's argument sequence.
const ArgumentsGlobal = "arguments"

// Outcome reports how a Run ended without error.
type Outcome int

const (
	Completed Outcome = iota
	Canceled
)

func (o Outcome) String() string {
	if o == Canceled {
		return "canceled"
	}
	return "completed"
}

// Request is one script execution.
type Request struct {
	Path string
	Args []string
	// Bypass skips confirmation (-y).
	Bypass bool
	// Trusted marks scripts resolved from the managed directory only.
	Trusted bool
}

// Confirmer decides whether an untrusted script may run.
type Confirmer interface {
	Confirm(absPath string, bypass bool) (bool, error)
}

// Config carries runtime settings read from the config file.
type Config struct {
	PackagePath     string
	PackageCPath    string
	MetricsTextfile string
	Stdout          io.Writer
}

// Host executes scripts. Each Run owns its own runtime and bridge.
type Host struct {
	cfg       Config
	gate      Confirmer
	logger    zerolog.Logger
	stdout    io.Writer
	newBridge func(zerolog.Logger) *netcap.Bridge
}

type Option func(*Host)

// WithBridgeFactory overrides how the per-run bridge is built.
func WithBridgeFactory(fn func(zerolog.Logger) *netcap.Bridge) Option {
	return func(h *Host) {
		if fn != nil {
			h.newBridge = fn
		}
	}
}

func New(cfg Config, gate Confirmer, logger zerolog.Logger, opts ...Option) *Host {
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	h := &Host{
		cfg:    cfg,
		gate:   gate,
		logger: logger.With().Str("component", "host").Logger(),
		stdout: stdout,
		newBridge: func(l zerolog.Logger) *netcap.Bridge {
			return netcap.NewBridge(l)
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run initializes a runtime, registers capabilities, confirms trust when
// required, then executes req.Path. Declining confirmation returns Canceled
// with a nil error.
func (h *Host) Run(req Request) (Outcome, error) {
	L := h.initialize(req.Args)
	defer L.Close()

	bridge := h.newBridge(h.logger)
	if err := bridge.Init(); err != nil {
		return Completed, fmt.Errorf("host: %w", err)
	}
	defer h.teardown(bridge)

	registerCapabilities(L, bridge, h.logger)

	abs, err := filepath.Abs(req.Path)
	if err != nil {
		return Completed, fmt.Errorf("host: resolve %s: %w", req.Path, err)
	}
	proceed, err := h.gate.Confirm(abs, req.Bypass || req.Trusted)
	if err != nil {
		return Canceled, err
	}
	if !proceed {
		fmt.Fprintln(h.stdout, "Canceled...")
		return Canceled, nil
	}

	h.logger.Info().Str("script", abs).Strs("args", req.Args).Msg("running script")
	if err := L.DoFile(req.Path); err != nil {
		return Completed, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	return Completed, nil
}

func (h *Host) initialize(args []string) *lua.LState {
	L := lua.NewState()
	argv := L.CreateTable(len(args), 0)
	for _, arg := range args {
		argv.Append(lua.LString(arg))
	}
	L.SetGlobal(ArgumentsGlobal, argv)
	L.SetGlobal("print", L.NewFunction(h.print))
	h.applyPackagePaths(L)
	return L
}

func (h *Host) applyPackagePaths(L *lua.LState) {
	pkg, ok := L.GetGlobal(lua.LoadLibName).(*lua.LTable)
	if !ok {
		return
	}
	if h.cfg.PackagePath != "" {
		L.SetField(pkg, "path", lua.LString(h.cfg.PackagePath))
	}
	if h.cfg.PackageCPath != "" {
		L.SetField(pkg, "cpath", lua.LString(h.cfg.PackageCPath))
	}
}

// print mirrors the runtime's print but writes to the host's stdout.
func (h *Host) print(L *lua.LState) int {
	top := L.GetTop()
	var sb strings.Builder
	for i := 1; i <= top; i++ {
		sb.WriteString(L.ToStringMeta(L.Get(i)).String())
		if i != top {
			sb.WriteByte('\t')
		}
	}
	sb.WriteByte('\n')
	_, _ = io.WriteString(h.stdout, sb.String())
	return 0
}

func (h *Host) teardown(bridge *netcap.Bridge) {
	if err := bridge.Shutdown(); err != nil {
		h.logger.Debug().Err(err).Msg("teardown continued after networking shutdown failure")
	}
	if h.cfg.MetricsTextfile == "" {
		return
	}
	if err := bridge.Metrics().WriteTextfile(h.cfg.MetricsTextfile); err != nil {
		h.logger.Warn().Err(err).Str("path", h.cfg.MetricsTextfile).Msg("write capability metrics")
	}
}
