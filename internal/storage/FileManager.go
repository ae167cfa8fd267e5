package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"hangovr/internal/models"
	"hangovr/internal/providers"
	"hangovr/internal/services"
	"hangovr/internal/storage/interfaces"
)

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type FileManager struct {
	service    services.HangoverServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.HangoverServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

// SaveToFile writes the population snapshot through a temp file and a
// rename, so a crash mid-write leaves the previous snapshot intact.
func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.service.GetSnapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the population and returns how many records it
// held. A missing file is not an error and loads nothing.
func (f *FileManager) LoadFromFile(fileName string) (int, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return 0, err
	}

	var snapshot models.PopulationSnapshot
	if err = json.Unmarshal(decompressedData, &snapshot); err != nil {
		return 0, err
	}
	if snapshot.Version != models.SnapshotVersion {
		return 0, fmt.Errorf("%w: %d", ErrSnapshotVersion, snapshot.Version)
	}
	if len(snapshot.Records) == 0 {
		return 0, nil
	}

	f.service.PutSnapshot(&snapshot)
	f.logger.Infof(providers.TypeApp, "Loaded %d records from %s", len(snapshot.Records), fileName)
	return len(snapshot.Records), nil
}

// Quarantine renames an unreadable snapshot so the next save cannot
// overwrite it. It returns the new path.
func (f *FileManager) Quarantine(fileName string, now time.Time) (string, error) {
	target := fmt.Sprintf("%s.corrupt-%d", fileName, now.Unix())
	if err := os.Rename(fileName, target); err != nil {
		return "", err
	}
	return target, nil
}
