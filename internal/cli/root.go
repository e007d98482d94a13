package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Skymixer/internal/orchestrator"
	"github.com/shaiso/Skymixer/internal/telemetry"
)

// stageFlags — опции стадий, общие для всех команд.
//
// Один набор флагов на все стадии: флаг, не имеющий смысла для
// конкретной стадии, просто игнорируется (как clobber для run).
type stageFlags struct {
	system     string
	queue      string
	extraCmds  string
	noblind    bool
	clobber    bool
	verify     bool
	skipErrors bool
	nocompress bool
	seed       int64
	verbosity  int
}

// NewRootCmd создаёт корневую команду skymixer.
func NewRootCmd(version string) *cobra.Command {
	flags := &stageFlags{}

	rootCmd := &cobra.Command{
		Use:           "skymixer",
		Short:         "Skymixer — tile fitting pipeline orchestrator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.system, "system", "", "Execution backend: shell or queue (overrides run config)")
	pf.StringVar(&flags.queue, "queue", "", "Remote queue name (overrides run config)")
	pf.StringVar(&flags.extraCmds, "extra-cmds", "", "Extra shell commands inserted into job scripts")
	pf.BoolVar(&flags.noblind, "noblind", false, "Disable blinding of the collated catalog")
	pf.BoolVar(&flags.clobber, "clobber", false, "Overwrite existing scripts (setup) or catalog (collate)")
	pf.BoolVar(&flags.verify, "verify", false, "Only verify job outputs, do not write the merged catalog")
	pf.BoolVar(&flags.skipErrors, "skip-errors", false, "Keep going past failed chunks and tiles")
	pf.BoolVar(&flags.nocompress, "nocompress", false, "Do not gzip the work-tree archive")
	pf.Int64Var(&flags.seed, "seed", 0, "Base random seed (overrides run config)")
	pf.IntVar(&flags.verbosity, "verbosity", telemetry.VerbosityFromEnv(), "Log verbosity (0=warn, 1=info, 2=debug)")

	rootCmd.AddCommand(
		newStageCmd(orchestrator.CommandSetup, "Partition tiles and write job scripts", flags),
		newStageCmd(orchestrator.CommandRun, "Submit job units without a valid output", flags),
		newStageCmd(orchestrator.CommandRerun, "Reset outputs and resubmit every job unit", flags),
		newStageCmd(orchestrator.CommandCollate, "Merge partial catalogs into the tile catalog", flags),
		newStageCmd(orchestrator.CommandArchive, "Pack the work tree of collated tiles", flags),
		newStageCmd(orchestrator.CommandClean, "Remove everything produced for the tiles", flags),
		newStageCmd(orchestrator.CommandLink, "Publish collated catalogs into output/", flags),
		newStatusCmd(flags),
	)

	// Любая ошибка разбора командной строки — usage-ошибка с выходом 2,
	// а не общий сбой.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	return rootCmd
}

// newStageCmd создаёт команду одной стадии.
func newStageCmd(command orchestrator.Command, short string, flags *stageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s RUN_CONFIG TILES", command),
		Short: short,
		Args:  stageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, command, args[0], args[1], flags)
		},
	}
}

// newStatusCmd создаёт команду отчёта о состоянии тайлов.
func newStatusCmd(flags *stageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status RUN_CONFIG TILES",
		Short: "Report the lifecycle state of each tile",
		Args:  stageArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0], args[1], flags)
		},
	}
}

// stageArgs проверяет позиционные аргументы стадии.
func stageArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected RUN_CONFIG and TILES, got %d arguments", ErrUsage, len(args))
	}
	return nil
}
