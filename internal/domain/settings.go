package domain

import "time"

// UserSettings is the per-user settings row in the remote store. Theme and
// onboarding flags are deliberately not here: those are device-local (see
// internal/prefs) and never sync across devices.
type UserSettings struct {
	UserID        string    `json:"user_id"`
	DarkMode      bool      `json:"dark_mode"`
	Notifications bool      `json:"notifications"`
	Biometrics    bool      `json:"biometrics"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultUserSettings are the values written when a user has no settings
// row yet.
func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID:        userID,
		DarkMode:      false,
		Notifications: true,
		Biometrics:    false,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	DarkMode      *bool `json:"dark_mode,omitempty"`
	Notifications *bool `json:"notifications,omitempty"`
	Biometrics    *bool `json:"biometrics,omitempty"`
}

// Apply returns s with the non-nil patch fields replaced.
func (p SettingsPatch) Apply(s UserSettings) UserSettings {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Biometrics != nil {
		s.Biometrics = *p.Biometrics
	}
	return s
}
