package repository

import "context"

// StateRepository stores the serialized learning-progress blob per user.
type StateRepository interface {
	// Load returns nil data and no error when nothing is stored.
	Load(ctx context.Context, userID string) ([]byte, error)
	Save(ctx context.Context, userID string, data []byte) error
	Delete(ctx context.Context, userID string) error
}
