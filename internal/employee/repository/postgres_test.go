package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"hotelmgt/internal/employee/domain"
)

var employeeCols = []string{
	"employee_id", "first_name", "last_name", "email", "phone_number", "username",
	"password_hash", "role", "is_active", "hire_date",
}

func TestListByRole(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	hired := time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM employees WHERE role = \\$1 ORDER BY first_name, last_name").
		WithArgs("Employee").
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(int64(2), "Ada", "Lovelace", "ada@example.com", "", "ada", "h", "Employee", true, hired).
			AddRow(int64(1), "Grace", "Hopper", "grace@example.com", "", "grace", "h", "Employee", true, hired))

	got, err := NewPostgresRepository(conn).ListByRole(context.Background(), "Employee")
	if err != nil {
		t.Fatalf("ListByRole: %v", err)
	}
	if len(got) != 2 || got[0].FullName() != "Ada Lovelace" || got[1].ID != 1 {
		t.Errorf("ListByRole = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("FROM employees WHERE username").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(employeeCols))

	e, err := NewPostgresRepository(conn).GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if e != nil {
		t.Errorf("GetByUsername = %+v, want nil", e)
	}
}

func TestCreate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs("Ada", "Lovelace", "ada@example.com", "", "ada", "hash", "Employee", true).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id"}).AddRow(int64(5)))

	e := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Username: "ada", PasswordHash: "hash", Role: "Employee", IsActive: true}
	if err := NewPostgresRepository(conn).Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != 5 {
		t.Errorf("ID = %d, want 5", e.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_Invalid(t *testing.T) {
	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	if err := NewPostgresRepository(conn).Create(context.Background(), &domain.Employee{FirstName: "Ada"}); err == nil {
		t.Error("Create with invalid employee should fail")
	}
}
