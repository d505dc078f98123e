package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kron.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE marker (id INTEGER PRIMARY KEY, note TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO marker (id, note) VALUES (1, 'original')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return dbPath
}

func readMarker(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open %s: %v", dbPath, err)
	}
	defer db.Close()

	var note string
	if err := db.QueryRow(`SELECT note FROM marker WHERE id = 1`).Scan(&note); err != nil {
		t.Fatalf("query %s: %v", dbPath, err)
	}
	return note
}

func TestCreateSnapshotsDatabase(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if got := readMarker(t, backupPath); got != "original" {
		t.Errorf("backup content = %q, want original", got)
	}
}

func TestCreateFailsWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create succeeded with no database")
	}
}

func TestListNewestFirst(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	// Stamps come from the file name, so distinct names are enough.
	if _, err := mgr.snapshot("kron-20250101-120000.db"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := mgr.snapshot("kron-20250301-120000.db"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := mgr.snapshot("kron-20250201-120000.db"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	if filepath.Base(backups[0].Path) != "kron-20250301-120000.db" {
		t.Errorf("newest first violated: %s", backups[0].Path)
	}
	if filepath.Base(backups[2].Path) != "kron-20250101-120000.db" {
		t.Errorf("oldest last violated: %s", backups[2].Path)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "kron.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups from missing directory", len(backups))
	}
}

func TestRotateKeepsMaxBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	for day := 1; day <= MaxBackups+3; day++ {
		name := fmt.Sprintf("%s202501%02d-120000%s", filePrefix, day, fileSuffix)
		if _, err := mgr.snapshot(name); err != nil {
			t.Fatalf("snapshot %s: %v", name, err)
		}
	}

	if err := mgr.rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("got %d backups after rotate, want %d", len(backups), MaxBackups)
	}
	// The survivors are the newest ones.
	oldest := filepath.Base(backups[len(backups)-1].Path)
	if oldest != filePrefix+"20250104-120000"+fileSuffix {
		t.Errorf("oldest survivor = %s", oldest)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutate the live database after the backup.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`UPDATE marker SET note = 'mutated' WHERE id = 1`); err != nil {
		t.Fatalf("update: %v", err)
	}
	db.Close()

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := readMarker(t, dbPath); got != "original" {
		t.Errorf("restored content = %q, want original", got)
	}

	// The pre-restore safety snapshot preserves the mutated state.
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var safety string
	for _, b := range backups {
		if filepath.Base(b.Path) != filepath.Base(backupPath) {
			safety = b.Path
		}
	}
	if safety == "" {
		t.Fatal("no pre-restore snapshot created")
	}
	if got := readMarker(t, safety); got != "mutated" {
		t.Errorf("safety snapshot content = %q, want mutated", got)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	corrupt := filepath.Join(t.TempDir(), "kron-bad.db")
	if err := os.WriteFile(corrupt, []byte("this is not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Restore(corrupt); err == nil {
		t.Fatal("Restore accepted a corrupt backup")
	}
	if got := readMarker(t, dbPath); got != "original" {
		t.Errorf("database damaged by rejected restore: %q", got)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := mgr.Restore(filepath.Join(mgr.Dir(), "kron-nope.db")); err == nil {
		t.Error("Restore accepted a missing backup")
	}
}
