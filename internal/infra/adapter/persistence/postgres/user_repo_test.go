package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"news-aggregator/internal/domain/entity"
	pg "news-aggregator/internal/infra/adapter/persistence/postgres"
)

var userCols = []string{"id", "email", "password_hash", "name", "role", "created_at", "updated_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("a@example.com", "hash", "Alice", entity.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	u := &entity.User{Email: "a@example.com", PasswordHash: "hash", Name: "Alice", Role: entity.RoleUser}
	if err := pg.NewUserRepo(db).Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	if u.ID != 5 {
		t.Errorf("ID = %d, want 5", u.ID)
	}
	assertExpectations(t, mock)
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	u := &entity.User{Email: "a@example.com", PasswordHash: "hash", Name: "Alice", Role: entity.RoleUser}
	err := pg.NewUserRepo(db).Create(context.Background(), u)
	if !errors.Is(err, entity.ErrAlreadyExists) {
		t.Fatalf("err=%v, want ErrAlreadyExists", err)
	}
	assertExpectations(t, mock)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("WHERE email = \\$1").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "a@example.com", "hash", "Alice", "admin", now, now))

	u, err := pg.NewUserRepo(db).GetByEmail(context.Background(), "a@example.com")
	if err != nil || u == nil {
		t.Fatalf("u=%v err=%v", u, err)
	}
	if !u.IsAdmin() {
		t.Error("expected admin role")
	}
	assertExpectations(t, mock)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("WHERE id = \\$1").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userCols))

	u, err := pg.NewUserRepo(db).GetByID(context.Background(), 9)
	if err != nil || u != nil {
		t.Fatalf("u=%v err=%v, want nil,nil", u, err)
	}
	assertExpectations(t, mock)
}

func TestUserRepo_UpdatePassword_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("newhash", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pg.NewUserRepo(db).UpdatePassword(context.Background(), 3, "newhash")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	assertExpectations(t, mock)
}

func TestUserRepo_UpdateProfile_EmailTaken(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("UPDATE users").
		WithArgs("Bob", "taken@example.com", int64(2)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := pg.NewUserRepo(db).UpdateProfile(context.Background(),
		&entity.User{ID: 2, Name: "Bob", Email: "taken@example.com"})
	if !errors.Is(err, entity.ErrAlreadyExists) {
		t.Fatalf("err=%v, want ErrAlreadyExists", err)
	}
	assertExpectations(t, mock)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("UPDATE users").
		WithArgs(entity.RoleAdmin, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs(entity.RoleUser, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewUserRepo(db)
	if err := repo.UpdateRole(context.Background(), 4, entity.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if err := repo.UpdateRole(context.Background(), 9, entity.RoleUser); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	assertExpectations(t, mock)
}
