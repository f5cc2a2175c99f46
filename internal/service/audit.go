package service

import (
	"context"

	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/domain"
)

// stampCreate sets both audit columns to the acting user on a new record
func stampCreate(ctx context.Context, m *domain.OwnedModel) {
	uid := auth.UserID(ctx)
	m.CreatedBy = uid
	m.UpdatedBy = uid
}

// stampUpdate sets the updated-by column to the acting user
func stampUpdate(ctx context.Context, m *domain.OwnedModel) {
	m.UpdatedBy = auth.UserID(ctx)
}
