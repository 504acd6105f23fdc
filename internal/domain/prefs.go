package domain

// Preferences holds the per-user display settings. When a user has no
// stored record, system defaults from configuration apply.
type Preferences struct {
	ResultsPerPage int
	SnippetsPerDoc int
	Language       string
}

// PreferencesPatch is a partial preferences update. Nil fields keep
// their current value.
type PreferencesPatch struct {
	ResultsPerPage *int
	SnippetsPerDoc *int
	Language       *string
}

// KeyboardMapping holds a user's custom on-screen keyboard layout.
type KeyboardMapping struct {
	Mapping map[string]string
	Enabled bool
}
