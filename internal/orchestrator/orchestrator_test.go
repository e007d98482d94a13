package orchestrator

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Skymixer/internal/backend"
	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/driver"
	"github.com/shaiso/Skymixer/internal/tileio"
)

// fakeBackend выполняет job units напрямую через драйвер, минуя скрипты.
// Submit пишет валидный частичный каталог в ожидаемый выходной файл.
type fakeBackend struct {
	cfg     *domain.RunConfig
	src     tileio.Source
	submits int
	fail    bool
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Submit(ctx context.Context, unit domain.JobUnit) (backend.Handle, error) {
	b.submits++
	if b.fail {
		return backend.Handle{}, errors.New("backend unavailable")
	}

	d, err := driver.New(driver.Config{RunConfig: b.cfg, Source: b.src})
	if err != nil {
		return backend.Handle{}, err
	}
	rng := unit.Range
	p, err := d.Process(ctx, driver.Request{
		Tile:  unit.Tile,
		Chunk: unit.Chunk,
		Range: &rng,
		Seed:  ChunkSeed(b.cfg.Seed, unit.Run, unit.Tile, unit.Chunk),
	})
	if err != nil {
		return backend.Handle{}, err
	}

	out := filepath.Join(unit.Dir, unit.Basename()+".json")
	if err := catalog.WritePartial(p, out); err != nil {
		return backend.Handle{}, err
	}
	return backend.Handle{ID: uuid.New(), Unit: unit}, nil
}

func (b *fakeBackend) Status(_ context.Context, h backend.Handle) (backend.Status, error) {
	return backend.StatusCompleted, nil
}

// testMixer поднимает Mixer над временными директориями с пятью
// объектами в двух связанных парах: группы {1,2}, {3}, {4,5}.
func testMixer(t *testing.T) (*Mixer, *fakeBackend, *domain.RunConfig) {
	t.Helper()

	dataDir := t.TempDir()
	outputDir := t.TempDir()

	tileDir := filepath.Join(dataDir, "tile1")
	if err := os.MkdirAll(tileDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeJSON(t, filepath.Join(tileDir, "objects.json"), []domain.Object{
		{ID: 1, RA: 52.1, Dec: -55.4},
		{ID: 2, RA: 52.2, Dec: -55.4},
		{ID: 3, RA: 52.9, Dec: -55.6},
		{ID: 4, RA: 53.4, Dec: -55.7},
		{ID: 5, RA: 53.5, Dec: -55.7},
	})
	writeJSON(t, filepath.Join(tileDir, "links.json"), []domain.Link{
		{A: 1, B: 2},
		{A: 4, B: 5},
	})

	cfg := &domain.RunConfig{
		Run:             "run01",
		FitModel:        "moments",
		ModelNbrs:       true,
		NumFOFsPerChunk: 2,
		System:          domain.SystemShell,
		BlindFields:     []string{"g1", "g2"},
		OutputDir:       outputDir,
		DataDir:         dataDir,
		Seed:            42,
	}

	src := tileio.NewFSSource(dataDir)
	be := &fakeBackend{cfg: cfg, src: src}
	m := New(Config{
		RunConfig: cfg,
		Source:    src,
		Backend:   be,
	})
	return m, be, cfg
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSetupTile_CreatesJobUnits(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Три группы по 2 на chunk → два job units: [0,1] и [2,2]
	wantDirs := []string{"chunk00000_0_1", "chunk00001_2_2"}
	for _, d := range wantDirs {
		dir := filepath.Join(m.WorkDir("tile1"), d)
		for _, script := range []string{"runchunk.sh", "job.sh"} {
			info, err := os.Stat(filepath.Join(dir, script))
			if err != nil {
				t.Fatalf("missing %s in %s: %v", script, d, err)
			}
			if info.Mode()&0o100 == 0 {
				t.Errorf("%s in %s is not executable", script, d)
			}
		}
	}

	// Копия конфигурации лежит рядом с job units
	if _, err := os.Stat(filepath.Join(m.WorkDir("tile1"), "skymixer-run01.yaml")); err != nil {
		t.Errorf("run config copy missing: %v", err)
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateSetup {
		t.Errorf("expected SETUP, got %s", state)
	}
}

func TestSetupTile_NoOverwrite(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	script := filepath.Join(m.WorkDir("tile1"), "chunk00000_0_1", "runchunk.sh")
	if err := os.WriteFile(script, []byte("# edited\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	// Повторный setup без overwrite не трогает существующие скрипты
	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("second setup: %v", err)
	}
	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# edited\n" {
		t.Error("setup without overwrite rewrote an existing script")
	}

	// С overwrite — перегенерирует
	if err := m.SetupTile(ctx, "tile1", true); err != nil {
		t.Fatalf("overwrite setup: %v", err)
	}
	data, err = os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "# edited\n" {
		t.Error("setup with overwrite left the stale script")
	}
}

func TestRunTile_RequiresSetup(t *testing.T) {
	m, _, _ := testMixer(t)

	err := m.RunTile(context.Background(), "tile1")
	if !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestRunTile_SkipsValidOutputs(t *testing.T) {
	m, be, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if be.submits != 2 {
		t.Fatalf("expected 2 submits, got %d", be.submits)
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateComplete {
		t.Errorf("expected COMPLETE after all outputs, got %s", state)
	}

	// Повторный run: все выходы валидны, ни одной отправки
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if be.submits != 2 {
		t.Errorf("idempotent run resubmitted: %d submits", be.submits)
	}
}

func TestRerunTile_Resubmits(t *testing.T) {
	m, be, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	// rerun отправляет всё заново, невзирая на валидные выходы
	if err := m.RerunTile(ctx, "tile1"); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if be.submits != 4 {
		t.Errorf("expected 4 submits after rerun, got %d", be.submits)
	}
}

func TestCollateTile_Roundtrip(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.CollateTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Fatalf("collate: %v", err)
	}

	// Blind включён по умолчанию — каталог с суффиксом -blind
	path := m.CollatedPath("tile1", true)
	out, err := catalog.ReadCollated(path)
	if err != nil {
		t.Fatalf("read collated: %v", err)
	}
	if !out.Blinded {
		t.Error("catalog must be blinded by default")
	}
	if len(out.Rows) != 5 {
		t.Errorf("expected 5 rows, got %d", len(out.Rows))
	}
	if !out.Complete() {
		t.Error("expected complete collation")
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateCollated {
		t.Errorf("expected COLLATED, got %s", state)
	}

	// Повторная коллация без clobber — отказ
	err = m.CollateTile(ctx, "tile1", CollateOptions{})
	if !errors.Is(err, catalog.ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestCollateTile_NoBlind(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.CollateTile(ctx, "tile1", CollateOptions{NoBlind: true}); err != nil {
		t.Fatalf("collate: %v", err)
	}

	// Открытый каталог живёт под другим именем
	out, err := catalog.ReadCollated(m.CollatedPath("tile1", false))
	if err != nil {
		t.Fatalf("read collated: %v", err)
	}
	if out.Blinded {
		t.Error("noblind catalog must not be blinded")
	}
}

func TestCollateTile_Verify(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// До выполнения jobs верификация проваливается
	err := m.CollateTile(ctx, "tile1", CollateOptions{Verify: true})
	if !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("expected ErrVerifyFailed before run, got %v", err)
	}

	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.CollateTile(ctx, "tile1", CollateOptions{Verify: true}); err != nil {
		t.Errorf("verify after run: %v", err)
	}

	// Verify ничего не пишет
	if m.collatedExists("tile1") {
		t.Error("verify must not write the collated catalog")
	}
}

func TestArchiveTile_RequiresCollation(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	err := m.ArchiveTile(ctx, "tile1", true)
	if !errors.Is(err, ErrNotCollated) {
		t.Errorf("expected ErrNotCollated, got %v", err)
	}
}

func TestArchiveTile_PacksWorkTree(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.CollateTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Fatalf("collate: %v", err)
	}
	if err := m.ArchiveTile(ctx, "tile1", true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if _, err := os.Stat(m.ArchivePath("tile1", true)); err != nil {
		t.Errorf("archive missing: %v", err)
	}
	if _, err := os.Stat(m.WorkDir("tile1")); !os.IsNotExist(err) {
		t.Error("work dir must be removed after archive")
	}
	// Итоговый каталог переживает архивацию
	if !m.collatedExists("tile1") {
		t.Error("collated catalog must survive archive")
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateArchived {
		t.Errorf("expected ARCHIVED, got %s", state)
	}
}

// tarEntries считает записи в tar.gz-архиве.
func tarEntries(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	n := 0
	for {
		if _, err := tr.Next(); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatal(err)
		}
		n++
	}
	return n
}

func TestArchiveTile_SecondCallKeepsArchive(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.CollateTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Fatalf("collate: %v", err)
	}
	if err := m.ArchiveTile(ctx, "tile1", true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	before := tarEntries(t, m.ArchivePath("tile1", true))
	if before == 0 {
		t.Fatal("archive has no entries")
	}

	// Повторная архивация — no-op: готовый архив остаётся нетронутым
	if err := m.ArchiveTile(ctx, "tile1", true); err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if after := tarEntries(t, m.ArchivePath("tile1", true)); after != before {
		t.Errorf("archive changed on rerun: %d entries, was %d", after, before)
	}
}

func TestTileState_InvalidOutputIsFailed(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, err := m.plan(ctx, "tile1")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	out := m.OutputPath(p.units[0])
	if err := os.WriteFile(out, []byte("not a catalog"), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateFailed {
		t.Errorf("expected FAILED, got %s", state)
	}
}

func TestLinkTile_PublishesSymlink(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Каталога ещё нет: link выполняет коллацию сам
	if err := m.LinkTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Fatalf("link: %v", err)
	}

	name := filepath.Base(m.CollatedPath("tile1", true))
	linkPath := filepath.Join(m.OutputLinkDir(), name)
	target, err := os.Readlink(linkPath)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != filepath.Join("..", "tile1", name) {
		t.Errorf("expected relative target, got %q", target)
	}

	// Через symlink читается настоящий каталог
	if _, err := catalog.ReadCollated(linkPath); err != nil {
		t.Errorf("catalog unreadable through symlink: %v", err)
	}

	// Повторный link без clobber — идемпотентен
	if err := m.LinkTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Errorf("second link: %v", err)
	}
}

func TestCleanTile_FullReset(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	if err := m.SetupTile(ctx, "tile1", false); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := m.RunTile(ctx, "tile1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.LinkTile(ctx, "tile1", CollateOptions{}); err != nil {
		t.Fatalf("link: %v", err)
	}

	if err := m.CleanTile(ctx, "tile1"); err != nil {
		t.Fatalf("clean: %v", err)
	}

	if _, err := os.Stat(m.TileDir("tile1")); !os.IsNotExist(err) {
		t.Error("tile dir must be removed")
	}
	name := filepath.Base(m.CollatedPath("tile1", true))
	if _, err := os.Lstat(filepath.Join(m.OutputLinkDir(), name)); !os.IsNotExist(err) {
		t.Error("published symlink must be removed")
	}

	state, err := m.TileState(ctx, "tile1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.TileStateUnset {
		t.Errorf("expected UNSET after clean, got %s", state)
	}
}

func TestProcessTiles_StopsWithoutSkipErrors(t *testing.T) {
	m, _, _ := testMixer(t)
	ctx := context.Background()

	// Второго тайла нет в источнике: setup для него провалится
	err := m.ProcessTiles(ctx, CommandSetup, []string{"missing", "tile1"}, StageOptions{})
	if err == nil {
		t.Fatal("expected error for missing tile")
	}
	// Без skip-errors до tile1 дело не дошло
	if _, statErr := os.Stat(m.TileDir("tile1")); !os.IsNotExist(statErr) {
		t.Error("processing must stop at the first failed tile")
	}

	// Со skip-errors tile1 обрабатывается, ошибка всё равно возвращается
	err = m.ProcessTiles(ctx, CommandSetup, []string{"missing", "tile1"}, StageOptions{SkipErrors: true})
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if _, statErr := os.Stat(m.WorkDir("tile1")); statErr != nil {
		t.Errorf("tile1 must be set up despite the failed tile: %v", statErr)
	}
}

func TestProcessTiles_NoTiles(t *testing.T) {
	m, _, _ := testMixer(t)
	err := m.ProcessTiles(context.Background(), CommandRun, nil, StageOptions{})
	if !errors.Is(err, ErrNoTiles) {
		t.Errorf("expected ErrNoTiles, got %v", err)
	}
}

func TestChunkSeed_DeterministicAndDistinct(t *testing.T) {
	a := ChunkSeed(42, "run01", "tile1", 0)
	b := ChunkSeed(42, "run01", "tile1", 0)
	if a != b {
		t.Error("chunk seed must be deterministic")
	}
	if a <= 0 {
		t.Errorf("chunk seed must be positive, got %d", a)
	}
	if ChunkSeed(42, "run01", "tile1", 1) == a {
		t.Error("different chunks must get different seeds")
	}
	if ChunkSeed(42, "run01", "tile2", 0) == a {
		t.Error("different tiles must get different seeds")
	}
}
