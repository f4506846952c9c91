package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"hotelmgt/internal/guest/domain"
)

func TestFindMatch(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM guests").
		WithArgs("Jane", "", "Doe", "555", "").
		WillReturnRows(sqlmock.NewRows([]string{
			"guest_id", "first_name", "middle_name", "last_name", "email",
			"phone_number", "id_type", "id_number", "created_at", "updated_at",
		}).AddRow(int64(12), "jane", "", "doe", "", "555", "", "", created, created))

	repo := NewPostgresRepository(conn)
	g, err := repo.FindMatch(context.Background(), domain.Identity{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555"})
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if g == nil || g.ID != 12 {
		t.Fatalf("FindMatch = %+v, want guest 12", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindMatch_NoRows(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("FROM guests").WillReturnRows(sqlmock.NewRows([]string{"guest_id"}))

	g, err := NewPostgresRepository(conn).FindMatch(context.Background(), domain.Identity{FirstName: "Jane", LastName: "Doe", IDNumber: "P1"})
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if g != nil {
		t.Errorf("FindMatch = %+v, want nil", g)
	}
}

func TestFindMatch_DatabaseError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM guests").WillReturnError(boom)

	if _, err := NewPostgresRepository(conn).FindMatch(context.Background(), domain.Identity{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestCreate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("INSERT INTO guests").
		WithArgs("Jane", "", "Doe", "", "555", "Passport", "P1").
		WillReturnRows(sqlmock.NewRows([]string{"guest_id"}).AddRow(int64(13)))

	id, err := NewPostgresRepository(conn).Create(context.Background(), domain.Identity{
		FirstName: "Jane", LastName: "Doe", PhoneNumber: "555", IDType: "Passport", IDNumber: "P1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 13 {
		t.Errorf("id = %d, want 13", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
