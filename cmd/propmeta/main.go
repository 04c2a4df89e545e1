package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/propmeta/config"
	"github.com/Konsultn-Engineering/propmeta/reflection"
	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func versionInfo() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, GitCommit, BuildDate, runtime.Version())
}

// app is the composition root shared by the subcommands.
type app struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg      *config.Config
	logger   *zap.Logger
	registry *typeinfo.Registry
	factory  *reflection.DefaultReflectorFactory
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	factory, err := reflection.NewFactory(cfg.FactoryOptions(logger)...)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = cfg.Registry()
	a.factory = factory
	return nil
}

func (a *app) reflectorFor(name string) (*reflection.Reflector, error) {
	rt, err := lookupModel(name)
	if err != nil {
		return nil, err
	}
	typ, err := a.registry.Of(rt)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", name, err)
	}
	return a.factory.FindForClass(typ)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "propmeta",
		Short: "Inspect the property metadata of Go types",
		Long: `propmeta discovers the readable and writable properties of a type from its
getters, setters and fields, and shows how each property is accessed.`,
		Version:      versionInfo(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.SetVersionTemplate("propmeta {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./propmeta.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every metadata build")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newInspectCmd(a))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
