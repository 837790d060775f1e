package prefs

// Scope says which store backs a preference key. The theme and onboarding
// flags live on the device even though a remote user-settings table exists;
// keeping the split in one registry makes it a configuration choice rather
// than something hardcoded per call site.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeRemote Scope = "remote"
)

// Preference keys.
const (
	KeyDarkMode      = "darkMode"
	KeyOnboarded     = "hasCompletedOnboarding"
	KeyNotifications = "notifications"
	KeyBiometrics    = "biometrics"
	KeyPremium       = "isPremium"
)

// Key describes one preference: where it is stored and what it reads as
// when absent or unreadable.
type Key struct {
	Name    string
	Scope   Scope
	Default bool
}

// Registry lists every preference flag the application knows about.
// Theme defaults to light (dark mode off).
var Registry = []Key{
	{Name: KeyDarkMode, Scope: ScopeLocal, Default: false},
	{Name: KeyOnboarded, Scope: ScopeLocal, Default: false},
	{Name: KeyNotifications, Scope: ScopeRemote, Default: true},
	{Name: KeyBiometrics, Scope: ScopeRemote, Default: false},
	{Name: KeyPremium, Scope: ScopeLocal, Default: false},
}

// Lookup returns the registry entry for name.
func Lookup(name string) (Key, bool) {
	for _, k := range Registry {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}
