package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okozlov/finflow/internal/domain"
)

// GetUserSettings returns the user's settings row, creating it with defaults
// on first read.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return domain.UserSettings{}, fmt.Errorf("GetUserSettings: %w", err)
	}

	var settings domain.UserSettings
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, dark_mode, notifications, biometrics, updated_at
		FROM user_settings
		WHERE user_id = $1`, userID,
	).Scan(&settings.UserID, &settings.DarkMode, &settings.Notifications, &settings.Biometrics, &settings.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return s.createDefaultSettings(ctx, userID)
	}
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("GetUserSettings: query: %w", storeErr(err))
	}
	return settings, nil
}

func (s *Store) createDefaultSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	settings := domain.DefaultUserSettings(userID)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, dark_mode, notifications, biometrics)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET user_id = excluded.user_id
		RETURNING updated_at`,
		settings.UserID, settings.DarkMode, settings.Notifications, settings.Biometrics,
	).Scan(&settings.UpdatedAt)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("GetUserSettings: create defaults: %w", storeErr(err))
	}
	return settings, nil
}

// UpdateUserSettings applies a partial patch to the user's settings row and
// returns the updated record. The row is created first when absent so a
// patch on a fresh account does not fail.
func (s *Store) UpdateUserSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.UserSettings, error) {
	if err := requireUser(userID); err != nil {
		return domain.UserSettings{}, fmt.Errorf("UpdateUserSettings: %w", err)
	}

	current, err := s.GetUserSettings(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("UpdateUserSettings: %w", err)
	}
	next := patch.Apply(current)

	err = s.pool.QueryRow(ctx, `
		UPDATE user_settings
		SET dark_mode = $2, notifications = $3, biometrics = $4, updated_at = now()
		WHERE user_id = $1
		RETURNING updated_at`,
		userID, next.DarkMode, next.Notifications, next.Biometrics,
	).Scan(&next.UpdatedAt)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("UpdateUserSettings: update: %w", storeErr(err))
	}
	return next, nil
}
