package printer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/database"
	_ "github.com/cognitivegears/ha-escpos-thermal-printer/migrations"
)

func testRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	p := validNetworkPrinter()
	p.Keepalive = true
	p.StatusIntervalSeconds = 30
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}

	got, err := repo.GetByID(ctx, "kitchen")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != p.Name || got.Host != p.Host || got.Port != p.Port {
		t.Errorf("GetByID() = %+v, want %+v", got, p)
	}
	if got.ConnectionType != ConnectionNetwork {
		t.Errorf("ConnectionType = %s, want network", got.ConnectionType)
	}
	if !got.Keepalive {
		t.Error("Keepalive not persisted")
	}
	if got.StatusIntervalSeconds != 30 {
		t.Errorf("StatusIntervalSeconds = %d, want 30", got.StatusIntervalSeconds)
	}
}

func TestRepository_CreateDuplicate(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, validNetworkPrinter()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, validNetworkPrinter())
	if !errors.Is(err, ErrPrinterExists) {
		t.Errorf("Create(duplicate) = %v, want ErrPrinterExists", err)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := testRepository(t)
	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, ErrPrinterNotFound) {
		t.Errorf("GetByID(missing) = %v, want ErrPrinterNotFound", err)
	}
}

func TestRepository_Update(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	p := validNetworkPrinter()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.Name = "Bar Printer"
	p.Host = "192.168.1.60"
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Bar Printer" || got.Host != "192.168.1.60" {
		t.Errorf("Update not persisted: %+v", got)
	}

	missing := validNetworkPrinter()
	missing.ID = "ghost"
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrPrinterNotFound) {
		t.Errorf("Update(missing) = %v, want ErrPrinterNotFound", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, validNetworkPrinter()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete(ctx, "kitchen"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "kitchen"); !errors.Is(err, ErrPrinterNotFound) {
		t.Errorf("GetByID(deleted) = %v, want ErrPrinterNotFound", err)
	}
	if err := repo.Delete(ctx, "kitchen"); !errors.Is(err, ErrPrinterNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrPrinterNotFound", err)
	}
}

func TestRepository_List(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	for _, id := range []string{"kitchen", "bar", "office"} {
		p := validNetworkPrinter()
		p.ID = id
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	printers, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(printers) != 3 {
		t.Fatalf("List() returned %d printers, want 3", len(printers))
	}
	// Ordered by ID.
	want := []string{"bar", "kitchen", "office"}
	for i, w := range want {
		if printers[i].ID != w {
			t.Errorf("List()[%d].ID = %s, want %s", i, printers[i].ID, w)
		}
	}
}
