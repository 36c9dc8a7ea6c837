package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/storage"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

const timestampFormat = "20060102-150405"

// Documents lists the keys carried by every backup.
var Documents = []string{constants.DocumentActivities, constants.DocumentProfile}

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots a storage provider into SQLite files under a backup
// directory. SQLite sources are copied with VACUUM INTO; every other
// provider has its documents exported into a fresh documents database.
type Manager struct {
	source    storage.Provider
	backupDir string
	now       func() time.Time
}

func NewManager(source storage.Provider, backupDir string) *Manager {
	return &Manager{source: source, backupDir: backupDir, now: time.Now}
}

// DefaultDir places backups next to a file-backed store, or in the config
// directory otherwise.
func DefaultDir(source storage.Provider, configDir string) string {
	path := source.GetConfigPath()
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return filepath.Join(path, constants.BackupDirName)
		}
		return filepath.Join(filepath.Dir(path), constants.BackupDirName)
	}
	return filepath.Join(configDir, constants.BackupDirName)
}

func (m *Manager) Dir() string {
	return m.backupDir
}

func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if db, ok := m.sqliteSource(); ok {
		err = vacuumInto(db, backupPath)
	} else {
		err = m.export(backupPath)
	}
	if err != nil {
		_ = os.Remove(backupPath)
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	if !skipRotation {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix))
	}
}

func (m *Manager) sqliteSource() (string, bool) {
	s, ok := m.source.(*sqlite.Store)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(s.GetConfigPath()); err != nil {
		return "", false
	}
	return s.GetConfigPath(), true
}

func vacuumInto(dbPath, destPath string) error {
	src, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", destPath); err != nil {
		return copyFile(dbPath, destPath)
	}
	return nil
}

func (m *Manager) export(destPath string) error {
	dest := sqlite.NewStore(destPath)
	if err := dest.Init(); err != nil {
		return err
	}
	defer dest.Close()

	for _, key := range Documents {
		data, err := m.source.GetDocument(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := dest.PutDocument(key, data); err != nil {
			return err
		}
	}
	return nil
}

// ListBackups returns backups newest first. Files whose names do not carry
// a timestamp are ignored.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName reads trackfit-YYYYMMDD-HHMMSS[-N].db.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(timestampFormat) {
		suffix, ok := strings.CutPrefix(stamp[len(timestampFormat):], "-")
		if !ok {
			return time.Time{}, false
		}
		if _, err := strconv.Atoi(suffix); err != nil {
			return time.Time{}, false
		}
		stamp = stamp[:len(timestampFormat)]
	}
	ts, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup snapshots the current data, then replaces it with the
// backup's. A SQLite source must be closed by the caller first.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	safety, err := m.createBackup(true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	if dbPath, ok := m.sqliteSource(); ok {
		return safety, replaceFile(backupPath, dbPath)
	}
	return safety, m.importFrom(backupPath)
}

func (m *Manager) importFrom(backupPath string) error {
	src := sqlite.NewStore(backupPath)
	if err := src.Load(); err != nil {
		return err
	}
	defer src.Close()

	for _, key := range Documents {
		data, err := src.GetDocument(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := m.source.PutDocument(key, data); err != nil {
			return fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return nil
}

func replaceFile(src, dst string) error {
	tmp := dst + ".restore.tmp"
	if err := copyFile(src, tmp); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

func verify(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
