package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shaiso/Skymixer/internal/domain"
)

// runScriptFmt — шаблон runchunk.sh: вызов фитирующего драйвера
// с перенаправлением вывода в лог job unit'а.
const runScriptFmt = `#!/bin/bash
chunk=%d
config=../%s
obase=%s
ofile=$obase".json"
lfile=$obase".log"

export SKYMIXER_DATA_DIR=%s
export SKYMIXER_VERBOSITY=%d

cmd="skymixer-fit --fof-range=%s --seed=%d --chunk=%d $config $ofile %s"
echo $cmd
$cmd &> $lfile
`

// jobScriptFmt — шаблон job.sh: extra-cmds, затем runchunk.sh.
const jobScriptFmt = `#!/bin/bash
%s
./runchunk.sh
`

// writeScripts генерирует runchunk.sh и job.sh в директории job unit.
func (m *Mixer) writeScripts(unit domain.JobUnit) error {
	seed := ChunkSeed(m.cfg.Seed, unit.Run, unit.Tile, unit.Chunk)

	runScript := fmt.Sprintf(runScriptFmt,
		unit.Chunk,
		m.configName(),
		unit.Basename(),
		m.cfg.DataDir,
		m.verbosity,
		unit.Range.String(),
		seed,
		unit.Chunk,
		unit.Tile,
	)

	extra := strings.TrimSpace(m.extraCmds)
	jobScript := fmt.Sprintf(jobScriptFmt, extra)

	if err := writeExecutable(filepath.Join(unit.Dir, "runchunk.sh"), runScript); err != nil {
		return err
	}
	return writeExecutable(filepath.Join(unit.Dir, "job.sh"), jobScript)
}

// writeExecutable пишет скрипт с правами на исполнение.
func writeExecutable(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("write script %s: %w", path, err)
	}
	return nil
}

// scriptsExist проверяет, созданы ли скрипты job unit.
func (m *Mixer) scriptsExist(unit domain.JobUnit) bool {
	_, err := os.Stat(filepath.Join(unit.Dir, "runchunk.sh"))
	return err == nil
}
