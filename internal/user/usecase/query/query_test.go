package query

import (
	"context"
	"testing"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/user/domain"
	"github.com/tair/techstore/internal/user/repository"
	"github.com/tair/techstore/pkg/database"
)

func seededRepo(t *testing.T) (domain.UserRepository, []*domain.User) {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := repository.NewGormUserRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ctx := context.Background()
	users := []*domain.User{
		{FirstName: "Ada", Email: "ada@example.com", PasswordHash: "x"},
		{FirstName: "Bob", Email: "bob@example.com", PasswordHash: "x"},
		{FirstName: "Cy", Email: "cy@example.com", PasswordHash: "x"},
	}
	for i, u := range users {
		roles := []string{domain.RoleClient}
		if i == 0 {
			roles = append(roles, domain.RoleAdmin)
		}
		if err := repo.Create(ctx, u, roles...); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	return repo, users
}

func TestGetUser(t *testing.T) {
	repo, users := seededRepo(t)
	handler := NewGetUserHandler(repo)

	got, err := handler.Handle(context.Background(), GetUserQuery{ID: users[1].ID})
	if err != nil || got.Email != "bob@example.com" {
		t.Fatalf("GetUser: %v %v", got, err)
	}
	for _, id := range []uint{0, 999} {
		if _, err := handler.Handle(context.Background(), GetUserQuery{ID: id}); !apperr.IsNotFoundError(err) {
			t.Errorf("id %d: expected NotFoundError, got %v", id, err)
		}
	}
}

func TestListUsers(t *testing.T) {
	repo, users := seededRepo(t)

	list, err := NewListUsersHandler(repo).Handle(context.Background(), ListUsersQuery{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(list) != 3 || list[0].ID != users[2].ID {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestGetStats(t *testing.T) {
	repo, _ := seededRepo(t)

	stats, err := NewGetStatsHandler(repo).Handle(context.Background(), GetStatsQuery{})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	want := UserStats{TotalUsers: 3, AdminCount: 1, ClientCount: 3}
	if *stats != want {
		t.Errorf("got %+v, want %+v", *stats, want)
	}
}
