package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hangovr/internal/models"
	"hangovr/internal/services"
	"hangovr/internal/structures"
	"hangovr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			Enabled:      true,
			FilePath:     filePath,
			SaveInterval: time.Second,
		},
		Population: structures.PopulationConfig{Size: 50, Seed: 9},
		Session: structures.SessionConfig{
			TTL:           time.Minute,
			PruneInterval: time.Second,
		},
	}
}

func newTestService(conf *structures.Config) *services.HangoverService {
	random := services.NewRandomSource(conf.Population.Seed)
	return services.NewHangoverService(conf, services.NewPopulationStore(), services.NewSessionStore(conf),
		services.NewRankingEngine(random, conf), services.NewPopulationGenerator(random), &testutil.MockLogger{})
}

func writeSnapshot(t *testing.T, path string, snap any) {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestFileManager_SaveToFile_AtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "population.dat")
	svc := newTestService(testConfig(path))
	svc.SeedPopulation(10)

	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveToFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "population.dat")
	svc := newTestService(testConfig(path))

	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	svc := newTestService(testConfig(""))
	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})

	n, err := fm.LoadFromFile("/nonexistent/path/file.dat")
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, svc.PopulationSize())
}

func TestFileManager_LoadFromFile_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.dat")
	writeSnapshot(t, path, models.PopulationSnapshot{
		Version: models.SnapshotVersion,
		Records: []models.SnapshotEntry{
			{ID: "a", Record: models.Record{Severity: 10, Age: 30, Sex: models.SexMale, Latitude: 40, Longitude: 20}},
			{ID: "b", Record: models.Record{Severity: 70, Age: 31, Sex: models.SexFemale, Latitude: 41, Longitude: 21}},
		},
	})

	svc := newTestService(testConfig(path))
	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})

	n, err := fm.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, svc.PopulationSize())

	snap := svc.GetSnapshot()
	require.Len(t, snap.Records, 2)
	assert.Equal(t, models.RecordID("a"), snap.Records[0].ID)
	assert.Equal(t, 70, snap.Records[1].Record.Severity)
}

func TestFileManager_LoadFromFile_EmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	writeSnapshot(t, path, models.PopulationSnapshot{Version: models.SnapshotVersion})

	svc := newTestService(testConfig(path))
	n, err := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{}).LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, svc.PopulationSize())
}

func TestFileManager_Quarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dat")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(testConfig(path)), &testutil.MockLogger{})
	moved, err := fm.Quarantine(path, time.Unix(1700000000, 0))
	require.NoError(t, err)

	assert.Equal(t, path+".corrupt-1700000000", moved)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestFileManager_Close(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fm := NewFileManager(comp, newTestService(testConfig("")), &testutil.MockLogger{})
	fm.Close()
	assert.True(t, comp.Closed)
}

func TestFileManager_LoadFromFile_UnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	writeSnapshot(t, path, models.PopulationSnapshot{Version: 99})

	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(testConfig(path)), &testutil.MockLogger{})
	_, err := fm.LoadFromFile(path)
	assert.ErrorIs(t, err, ErrSnapshotVersion)
}

func TestFileManager_LoadFromFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(testConfig(path)), &testutil.MockLogger{})
	_, err := fm.LoadFromFile(path)
	assert.Error(t, err)
}

func TestFileManager_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "err.dat")
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress failed")
		},
	}

	fm := NewFileManager(comp, newTestService(testConfig(path)), &testutil.MockLogger{})
	err := fm.SaveToFile(path)
	assert.ErrorContains(t, err, "compress failed")
}

func TestFileManager_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dec.dat")
	require.NoError(t, os.WriteFile(path, []byte("some data"), 0644))
	comp := &testutil.MockCompressor{
		DecompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("decompress failed")
		},
	}

	fm := NewFileManager(comp, newTestService(testConfig(path)), &testutil.MockLogger{})
	_, err := fm.LoadFromFile(path)
	assert.ErrorContains(t, err, "decompress failed")
}

func TestFileManager_Roundtrip_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.dat")
	comp, err := NewZstdCompressor(&structures.Config{})
	require.NoError(t, err)
	defer comp.Close()

	src := newTestService(testConfig(path))
	src.SeedPopulation(200)
	require.NoError(t, NewFileManager(comp, src, &testutil.MockLogger{}).SaveToFile(path))

	dst := newTestService(testConfig(path))
	n, err := NewFileManager(comp, dst, &testutil.MockLogger{}).LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 200, n)
	assert.Equal(t, src.GetSnapshot(), dst.GetSnapshot())
}
