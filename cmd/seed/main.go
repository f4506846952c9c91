// seed inserts development sample data: front-desk employees, today's activity and payments,
// and one registered guest. Idempotent: skips everything if the first seed employee exists.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"hotelmgt/internal/activity"
	activitydomain "hotelmgt/internal/activity/domain"
	activityrepo "hotelmgt/internal/activity/repository"
	"hotelmgt/internal/config"
	"hotelmgt/internal/db"
	employeedomain "hotelmgt/internal/employee/domain"
	employeerepo "hotelmgt/internal/employee/repository"
	guestdomain "hotelmgt/internal/guest/domain"
	guestservice "hotelmgt/internal/guest/service"
)

const devPassword = "password123"

type seedActivity struct {
	employee    int
	offset      time.Duration
	kind        string
	description string
}

type seedPayment struct {
	employee  int
	offset    time.Duration
	amount    string
	method    string
	status    string
	reference string
	notes     string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := seed(ctx, conn, cfg.FeedEmployeeRole); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func seed(ctx context.Context, conn *sql.DB, role string) error {
	employees := employeerepo.NewPostgresRepository(conn)
	staff := []*employeedomain.Employee{
		{FirstName: "Maria", LastName: "Santos", Email: "maria.santos@example.com", Username: "msantos", PhoneNumber: "09171234567"},
		{FirstName: "Jose", LastName: "Reyes", Email: "jose.reyes@example.com", Username: "jreyes", PhoneNumber: "09181234567"},
	}

	existing, err := employees.GetByUsername(ctx, staff[0].Username)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Fprintf(os.Stdout, "seed: %s already exists, skipping\n", staff[0].Username)
		return nil
	}

	for _, e := range staff {
		e.Role = role
		e.IsActive = true
		if err := e.SetPassword(devPassword, 0); err != nil {
			return err
		}
		if err := employees.Create(ctx, e); err != nil {
			return fmt.Errorf("create employee %s: %w", e.Username, err)
		}
	}

	// Rows land in today's day so the feed shows them with the default filter.
	day := activitydomain.Today(time.Now())
	activityLogs := activityrepo.NewPostgresActivityLogRepository(conn, role)
	activities := []seedActivity{
		{0, 8 * time.Hour, "Login", "Logged in from front desk terminal 1"},
		{1, 8*time.Hour + 5*time.Minute, "Login", "Logged in from front desk terminal 2"},
		{0, 9*time.Hour + 30*time.Minute, "Check-in", "Checked in reservation #1001, room 204"},
		{1, 11 * time.Hour, "Reservation Update", "Extended reservation #1002 by one night"},
		{0, 12 * time.Hour, "Check-out", "Checked out reservation #998, room 110"},
		{1, 17 * time.Hour, "Logout", "Logged out"},
	}
	for _, a := range activities {
		entry := &activitydomain.ActivityEntry{
			EmployeeID:  staff[a.employee].ID,
			Type:        a.kind,
			Description: a.description,
			At:          day.Add(a.offset),
		}
		if err := activityLogs.Create(ctx, entry); err != nil {
			return fmt.Errorf("create activity: %w", err)
		}
	}

	payments := []seedPayment{
		{0, 9*time.Hour + 35*time.Minute, "4500.00", "Cash", "Completed", "", "Deposit for #1001"},
		{1, 11*time.Hour + 10*time.Minute, "2250.50", "Credit Card", "Completed", "TXN-88213", ""},
		{0, 12*time.Hour + 5*time.Minute, "1200.00", "GCash", "Pending", "GC-55120", "Minibar charges"},
	}
	for i, p := range payments {
		if err := insertPayment(ctx, conn, int64(1001+i), staff[p.employee].ID, day.Add(p.offset), p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
	}

	recordedBy := staff[0].ID
	guests := guestservice.NewGuestService(guestservice.NewTxRunner(conn), activity.NewRecorder(activityLogs))
	res, err := guests.EnsureGuest(ctx, guestdomain.Identity{
		FirstName:   "Ana",
		LastName:    "Cruz",
		PhoneNumber: "09191234567",
		IDType:      "Passport",
		IDNumber:    "P1234567",
		RecordedBy:  &recordedBy,
	})
	if err != nil {
		return fmt.Errorf("ensure guest: %w", err)
	}

	fmt.Fprintf(os.Stdout, "seed: %d employees, %d activities, %d payments, guest #%d (password %q)\n",
		len(staff), len(activities), len(payments), res.GuestID, devPassword)
	return nil
}

func insertPayment(ctx context.Context, conn *sql.DB, reservationID, employeeID int64, at time.Time, p seedPayment) error {
	amount, err := decimal.NewFromString(p.amount)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, `
		INSERT INTO payments (reservation_id, employee_id, amount, payment_method, payment_status,
			transaction_reference, notes, payment_date)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		reservationID, employeeID, amount, p.method, p.status, p.reference, p.notes, at)
	return err
}
