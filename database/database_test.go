package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// newTestDB открывает временную базу для теста
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultDBConfig())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestProductDBCRUD проверяет полный цикл работы с товарными позициями.
func TestProductDBCRUD(t *testing.T) {
	ctx := context.Background()
	pdb, err := NewProductDB(newTestDB(t))
	if err != nil {
		t.Fatalf("NewProductDB: %v", err)
	}

	product := &Product{
		ID:       "p1",
		Name:     "Metal Beam Crash Barrier",
		Subtypes: []string{"W-Beam", "Thrie-Beam"},
		Unit:     "meter",
		Notes:    "galvanized",
	}
	if err := pdb.Create(ctx, product); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := pdb.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != product.Name || got.Unit != product.Unit {
		t.Errorf("загружена не та запись: %+v", got)
	}
	if len(got.Subtypes) != 2 || got.Subtypes[0] != "W-Beam" {
		t.Errorf("подтипы не сохранились: %v", got.Subtypes)
	}

	got.Name = "Metal Beam Crash Barrier (Galvanized)"
	got.Subtypes = append(got.Subtypes, "Cable")
	if err := pdb.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all, err := pdb.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || len(all[0].Subtypes) != 3 {
		t.Errorf("обновление не сохранилось: %+v", all)
	}

	if err := pdb.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := pdb.GetByID(ctx, "p1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("после удаления ожидался sql.ErrNoRows, получено %v", err)
	}
	if err := pdb.Delete(ctx, "p1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("повторное удаление должно давать sql.ErrNoRows, получено %v", err)
	}
}

// TestManufacturerDBVerifiedAt проверяет сохранение отметки проверки.
func TestManufacturerDBVerifiedAt(t *testing.T) {
	ctx := context.Background()
	mdb, err := NewManufacturerDB(newTestDB(t))
	if err != nil {
		t.Fatalf("NewManufacturerDB: %v", err)
	}

	manufacturer := &Manufacturer{
		ID:              "m1",
		Name:            "SafeRoad India",
		Location:        "Chennai",
		ProductsOffered: []Offer{{ProductType: "W-Beam Barrier", Price: 450.50}},
	}
	if err := mdb.Create(ctx, manufacturer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := mdb.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VerifiedAt != nil {
		t.Errorf("новая запись не должна быть проверенной")
	}
	if len(got.ProductsOffered) != 1 || got.ProductsOffered[0].ProductType != "W-Beam Barrier" ||
		got.ProductsOffered[0].Price != 450.50 {
		t.Errorf("предложения не сохранились: %+v", got.ProductsOffered)
	}

	now := time.Now().UTC()
	got.VerifiedAt = &now
	if err := mdb.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	verified, err := mdb.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID после Update: %v", err)
	}
	if verified.VerifiedAt == nil {
		t.Error("отметка проверки не сохранилась")
	}
}

// TestOrderDBDefaults проверяет статус по умолчанию и выборку заказов.
func TestOrderDBDefaults(t *testing.T) {
	ctx := context.Background()
	odb, err := NewOrderDB(newTestDB(t))
	if err != nil {
		t.Fatalf("NewOrderDB: %v", err)
	}

	order := &Order{
		ID:           "o1",
		Manufacturer: "SafeRoad India",
		Product:      "Metal Beam Crash Barrier",
		ProductType:  "W-Beam",
		Quantity:     120,
		FromLocation: "Chennai Port",
		ToLocation:   "Hyderabad Site",
	}
	if err := odb.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := odb.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != OrderStatusPending {
		t.Errorf("статус по умолчанию = %q, want %q", got.Status, OrderStatusPending)
	}
	if got.Quantity != 120 {
		t.Errorf("количество = %v, want 120", got.Quantity)
	}
}

// TestTaskDBRoundTrip проверяет сохранение задач и сортировку по дате.
func TestTaskDBRoundTrip(t *testing.T) {
	ctx := context.Background()
	tdb, err := NewTaskDB(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTaskDB: %v", err)
	}

	later := &Task{
		ID:         "t2",
		AssignedTo: "Priya Sharma",
		TaskDate:   time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		TaskText:   "Later task",
	}
	earlier := &Task{
		ID:         "t1",
		AssignedTo: "Arjun Mehta",
		TaskDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		TaskText:   "Earlier task\nDetails",
	}
	if err := tdb.Create(ctx, later); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := tdb.Create(ctx, earlier); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := tdb.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ожидалось 2 задачи, получено %d", len(all))
	}
	if all[0].ID != "t1" {
		t.Errorf("задачи не отсортированы по дате: %v, %v", all[0].ID, all[1].ID)
	}
}

// TestUserDBUniqueUsername проверяет уникальность имени учетной записи.
func TestUserDBUniqueUsername(t *testing.T) {
	ctx := context.Background()
	udb, err := NewUserDB(newTestDB(t))
	if err != nil {
		t.Fatalf("NewUserDB: %v", err)
	}

	user := &User{ID: "u1", Username: "priya", PasswordHash: "hash", Role: RoleEmployee}
	if err := udb.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	duplicate := &User{ID: "u2", Username: "priya", PasswordHash: "hash2", Role: RoleEmployee}
	if err := udb.Create(ctx, duplicate); err == nil {
		t.Error("повторное имя учетной записи должно давать ошибку")
	}

	count, err := udb.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}

	got, err := udb.GetByUsername(ctx, "priya")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("GetByUsername вернул не ту запись: %+v", got)
	}
}
