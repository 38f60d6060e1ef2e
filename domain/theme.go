package domain

// UI themes a user can persist.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
