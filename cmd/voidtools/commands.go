package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tyqualters/voidtools/internal/host"
	"github.com/tyqualters/voidtools/internal/scripts"
	"github.com/tyqualters/voidtools/internal/trust"
)

var errScriptRequired = errors.New("run: script required")

// execute runs the command tree and maps errors to exit codes.
func (a *app) execute(args []string) int {
	if args == nil {
		args = []string{}
	}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, scripts.ErrNotLocated):
		fmt.Fprintln(a.stdout, "Could not locate script.")
		return 1
	default:
		fmt.Fprintf(a.stderr, "voidtools: %v\n", err)
		return 1
	}
}

func (a *app) rootCommand() *cobra.Command {
	var list, run, yes bool
	root := &cobra.Command{
		Use:           "voidtools [-l | -r <script> [args...]] [-y]",
		Short:         "Run automation scripts with native networking capabilities",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case list:
				return a.listScripts()
			case run:
				inv := parseRunArgs(args)
				if inv.help {
					return cmd.Help()
				}
				return a.runScript(inv, yes)
			default:
				return cmd.Help()
			}
		},
	}
	root.Flags().SetInterspersed(false)
	root.Flags().BoolVarP(&list, "list", "l", false, "List available scripts")
	root.Flags().BoolVarP(&run, "run", "r", false, "Run a script")
	root.Flags().BoolVarP(&yes, "yes", "y", false, "Skip script confirmation")
	root.AddCommand(a.listCommand(), a.runCommand())
	return root
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listScripts()
		},
	}
}

func (a *app) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script> [script-args...] [-y] [-- args...]",
		Short: "Resolve and run a script",
		Long: "Resolve and run a script.\n\n" +
			"A name without the .lua suffix is looked up in the managed scripts directory only\n" +
			"and runs without confirmation. A .lua path is searched in the working directory,\n" +
			"the managed scripts directory, then PATH, and asks for confirmation unless -y is given.\n" +
			"Arguments after -- are passed to the script unchanged.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := parseRunArgs(args)
			if inv.help {
				return cmd.Help()
			}
			return a.runScript(inv, false)
		},
	}
}

type runInvocation struct {
	script string
	args   []string
	bypass bool
	help   bool
}

// parseRunArgs separates host flags from script arguments. -y and --yes are
// host flags anywhere before "--"; -h and --help only before the script name.
func parseRunArgs(raw []string) runInvocation {
	inv := runInvocation{args: []string{}}
	passthrough := false
	for _, tok := range raw {
		if !passthrough {
			switch tok {
			case "--":
				passthrough = true
				continue
			case "-y", "--yes":
				inv.bypass = true
				continue
			case "-h", "--help":
				if inv.script == "" {
					inv.help = true
					continue
				}
			}
		}
		if inv.script == "" {
			inv.script = tok
			continue
		}
		inv.args = append(inv.args, tok)
	}
	return inv
}

func (a *app) runScript(inv runInvocation, yes bool) error {
	if inv.script == "" {
		return errScriptRequired
	}
	workDir, cfg, err := a.environment()
	if err != nil {
		return err
	}

	locator := scripts.NewLocator(workDir, cfg.ScriptsDir, scripts.SearchPathFromEnv(a.getenv("PATH")), a.logger)
	ref, err := locator.Resolve(inv.script)
	if err != nil {
		return err
	}

	hostCfg := host.Config{
		MetricsTextfile: cfg.MetricsTextfile,
		Stdout:          a.stdout,
	}
	if paths, ok := cfg.packagePaths(); ok {
		hostCfg.PackagePath = paths.Path
		hostCfg.PackageCPath = paths.CPath
	}

	h := host.New(hostCfg, trust.NewGate(a.stdin, a.stdout), a.logger)
	outcome, err := h.Run(host.Request{
		Path:    ref.Path,
		Args:    inv.args,
		Bypass:  inv.bypass || yes,
		Trusted: ref.Trusted,
	})
	if err != nil {
		return err
	}
	a.logger.Debug().Str("script", ref.Path).Str("outcome", outcome.String()).Msg("script finished")
	return nil
}

func (a *app) listScripts() error {
	workDir, cfg, err := a.environment()
	if err != nil {
		return err
	}
	names, err := scripts.RecursiveList(scripts.ManagedDir(workDir, cfg.ScriptsDir))
	if err != nil {
		return err
	}
	style := lipgloss.NewRenderer(a.stdout).NewStyle().Foreground(lipgloss.Color("14"))
	for _, name := range names {
		fmt.Fprintln(a.stdout, style.Render(name))
	}
	return nil
}

func (a *app) environment() (string, appConfig, error) {
	workDir, err := a.getwd()
	if err != nil {
		return "", appConfig{}, fmt.Errorf("working directory: %w", err)
	}
	path := a.getenv(EnvConfigPath)
	if path == "" {
		path = filepath.Join(workDir, defaultConfigFile)
	}
	cfg, err := loadAppConfig(path)
	if err != nil {
		return "", appConfig{}, err
	}
	return workDir, cfg, nil
}
