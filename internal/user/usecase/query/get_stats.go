package query

import (
	"context"
	"fmt"

	"github.com/tair/techstore/internal/user/domain"
)

// GetStatsQuery represents the query to get user statistics (admin only)
type GetStatsQuery struct{}

// UserStats represents user statistics
type UserStats struct {
	TotalUsers  int64 `json:"totalUsers"`
	AdminCount  int64 `json:"adminCount"`
	ClientCount int64 `json:"clientCount"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*UserStats, error) {
	totalUsers, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	adminCount, err := h.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}

	clientCount, err := h.repo.CountByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	return &UserStats{
		TotalUsers:  totalUsers,
		AdminCount:  adminCount,
		ClientCount: clientCount,
	}, nil
}
