package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alejogim/sistema-de-reserva/internal/database"
	"github.com/alejogim/sistema-de-reserva/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, "sqlite3"))
	return db
}

func createService(t *testing.T, repo *ServiceRepo, name string, price model.Cents) *model.Service {
	t.Helper()
	s := &model.Service{Name: name, Description: name, Price: price, DurationMin: 30}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func book(t *testing.T, repo *ReservationRepo, svc *model.Service, email, date, slot string) *model.Reservation {
	t.Helper()
	res := &model.Reservation{
		ServiceID:         svc.ID,
		Date:              date,
		Time:              slot,
		DepositPercentage: 50,
		Deposit:           svc.Price.Percent(50),
		ServiceName:       svc.Name,
		ServicePrice:      svc.Price,
	}
	client := &model.Client{Name: "Ana", Surname: "Diaz", Email: email, Phone: "123"}
	require.NoError(t, repo.CreatePending(context.Background(), client, res))
	return res
}

func TestServiceRepo_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewServiceRepo(db)
	ctx := context.Background()

	corte := createService(t, repo, "Corte", 5000)
	createService(t, repo, "Barba", 2000)

	got, err := repo.GetByID(ctx, corte.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corte", got.Name)
	assert.Equal(t, model.Cents(5000), got.Price)
	assert.True(t, got.Active)

	corte.Price = 5500
	corte.Name = "Corte clásico"
	require.NoError(t, repo.Update(ctx, corte))
	got, err = repo.GetByID(ctx, corte.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Cents(5500), got.Price)

	require.NoError(t, repo.Deactivate(ctx, corte.ID))
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Barba", active[0].Name)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Active, "active services first")
	assert.False(t, all[1].Active)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "service 999 not found", nf.Error())
	assert.ErrorIs(t, repo.Deactivate(ctx, 999), model.ErrNotFound)
}

func TestReservationRepo_SameEmailReusesClient(t *testing.T) {
	db := newTestDB(t)
	services := NewServiceRepo(db)
	repo := NewReservationRepo(db)
	svc := createService(t, services, "Corte", 5000)

	first := book(t, repo, svc, "ana@example.com", "2030-01-10", "10:00")
	second := book(t, repo, svc, "  ANA@example.com ", "2030-01-11", "11:00")

	assert.Equal(t, first.ClientID, second.ClientID)
	assert.NotEqual(t, first.ID, second.ID)

	var clients int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&clients))
	assert.Equal(t, 1, clients)

	list, err := NewClientRepo(db).ListWithCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].TotalReservations)
}

func TestReservationRepo_CreatePendingRollsBackClient(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepo(db)

	// service 42 does not exist, so the reservation insert fails the foreign key
	res := &model.Reservation{ServiceID: 42, Date: "2030-01-10", Time: "10:00", ServiceName: "x"}
	err := repo.CreatePending(context.Background(), &model.Client{Name: "A", Surname: "B", Email: "a@b.c", Phone: "1"}, res)
	require.Error(t, err)

	var clients int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&clients))
	assert.Equal(t, 0, clients, "no orphan client")
}

func TestReservationRepo_TransitionIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepo(db)
	svc := createService(t, NewServiceRepo(db), "Corte", 5000)
	res := book(t, repo, svc, "ana@example.com", "2030-01-10", "10:00")
	ctx := context.Background()

	ref := "mp-1"
	applied, err := repo.Transition(ctx, res.ID, model.TransitionFor(model.OutcomeApproved), &ref)
	require.NoError(t, err)
	assert.True(t, applied)

	other := "mp-2"
	applied, err = repo.Transition(ctx, res.ID, model.TransitionFor(model.OutcomeApproved), &other)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.Transition(ctx, res.ID, model.TransitionFor(model.OutcomeRejected), nil)
	require.NoError(t, err)
	assert.False(t, applied)

	d, err := repo.GetDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateConfirmed, d.State)
	require.NotNil(t, d.PaymentRef)
	assert.Equal(t, "mp-1", *d.PaymentRef)
}

func TestReservationRepo_SetStateOverridesAnything(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepo(db)
	svc := createService(t, NewServiceRepo(db), "Corte", 5000)
	res := book(t, repo, svc, "ana@example.com", "2030-01-10", "10:00")
	ctx := context.Background()

	require.NoError(t, repo.SetState(ctx, res.ID, model.StateConfirmed))
	require.NoError(t, repo.SetState(ctx, res.ID, model.StateCancelled))

	d, err := repo.GetDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateCancelled, d.State)

	assert.ErrorIs(t, repo.SetState(ctx, 12345, model.StateCancelled), model.ErrNotFound)
}

func TestReservationRepo_OccupiedTimes(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepo(db)
	svc := createService(t, NewServiceRepo(db), "Corte", 5000)
	ctx := context.Background()

	pending := book(t, repo, svc, "a@example.com", "2030-01-10", "09:00")
	confirmed := book(t, repo, svc, "b@example.com", "2030-01-10", "10:00")
	failed := book(t, repo, svc, "c@example.com", "2030-01-10", "11:00")
	cancelled := book(t, repo, svc, "d@example.com", "2030-01-10", "12:00")
	book(t, repo, svc, "e@example.com", "2030-01-11", "13:00")

	require.NoError(t, repo.SetState(ctx, confirmed.ID, model.StateConfirmed))
	require.NoError(t, repo.SetState(ctx, failed.ID, model.StatePaymentFailed))
	require.NoError(t, repo.SetState(ctx, cancelled.ID, model.StateCancelled))
	_ = pending

	got, err := repo.OccupiedTimes(ctx, "2030-01-10", model.OccupyingStates(false))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10:00", "11:00"}, got)

	got, err = repo.OccupiedTimes(ctx, "2030-01-10", model.OccupyingStates(true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00", "10:00", "11:00"}, got)
}

func TestReservationRepo_SnapshotSurvivesServiceChanges(t *testing.T) {
	db := newTestDB(t)
	services := NewServiceRepo(db)
	repo := NewReservationRepo(db)
	svc := createService(t, services, "Corte", 5000)
	res := book(t, repo, svc, "ana@example.com", "2030-01-10", "10:00")
	ctx := context.Background()

	svc.Name = "Corte premium"
	svc.Price = 9000
	require.NoError(t, services.Update(ctx, svc))
	require.NoError(t, services.Deactivate(ctx, svc.ID))

	d, err := repo.GetDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corte", d.ServiceName)
	assert.Equal(t, model.Cents(5000), d.ServicePrice)
	assert.Equal(t, model.Cents(2500), d.Deposit)
	assert.Equal(t, "ana@example.com", d.ClientEmail)
}

func TestReservationRepo_ListAndStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepo(db)
	svc := createService(t, NewServiceRepo(db), "Corte", 5000)
	ctx := context.Background()

	a := book(t, repo, svc, "a@example.com", "2030-01-10", "09:00")
	b := book(t, repo, svc, "b@example.com", "2030-01-12", "10:00")
	book(t, repo, svc, "a@example.com", "2030-01-12", "16:30")
	require.NoError(t, repo.SetState(ctx, a.ID, model.StateConfirmed))
	require.NoError(t, repo.SetState(ctx, b.ID, model.StateConfirmed))
	require.NoError(t, repo.SetPaymentLink(ctx, b.ID, "https://pay.example/b"))

	list, err := repo.ListDetails(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "16:30", list[0].Time)
	assert.Equal(t, "10:00", list[1].Time)
	assert.Equal(t, "2030-01-10", list[2].Date)
	require.NotNil(t, list[1].PaymentLink)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReservations)
	assert.Equal(t, int64(2), stats.TotalClients)
	assert.Equal(t, model.Cents(5000), stats.TotalRevenue)
}

func TestAdminRepo_Profile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := database.Seed(ctx, db, database.SeedOptions{
		AdminUsername: "admin", AdminPassword: "admin123", AdminEmail: "admin@sistema.com", BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO admins (username, password_hash, email) VALUES ('other', 'x', 'other@sistema.com')`)
	require.NoError(t, err)

	repo := NewAdminRepo(db)
	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	err = repo.UpdateProfile(ctx, admin.ID, "other", "new@sistema.com")
	assert.ErrorIs(t, err, model.ErrConflict)

	require.NoError(t, repo.UpdateProfile(ctx, admin.ID, "admin", "new@sistema.com"))
	got, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@sistema.com", got.Email)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "hash"))
	got, err = repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestWrapErr_UniqueViolation(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO clients (name, surname, email, phone) VALUES ('a','b','x@y.z','1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO clients (name, surname, email, phone) VALUES ('a','b','x@y.z','1')`)
	require.Error(t, err)

	assert.ErrorIs(t, wrapErr("insert", err), model.ErrConflict)
	assert.ErrorIs(t, wrapErr("get", sql.ErrNoRows), model.ErrNotFound)
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
