package model

// Settings is the persisted bot configuration document.
type Settings struct {
	CurrentVariant      Variant `json:"current_week"`
	AutoSwitchOnMonday  bool    `json:"auto_switch_on_monday"`
	ReminderLeadMinutes int     `json:"reminder_minutes_before"`
	MorningBroadcast    bool    `json:"send_6am"`
	EveningBroadcast    bool    `json:"send_18pm"`
	AdminIDs            []int64 `json:"admins"`

	// LastRotation records the local date (YYYY-MM-DD) of the most recent
	// automatic Monday flip, so a repeated wake on the same day cannot
	// rotate twice.
	LastRotation string `json:"last_rotation,omitempty"`
}

// DefaultSettings returns the configuration for a fresh installation.
func DefaultSettings(operatorID int64) Settings {
	return Settings{
		CurrentVariant:      VariantUpper,
		AutoSwitchOnMonday:  true,
		ReminderLeadMinutes: 15,
		MorningBroadcast:    true,
		EveningBroadcast:    true,
		AdminIDs:            []int64{operatorID},
	}
}

// IsAdmin reports whether id is in the global admin set.
func (s Settings) IsAdmin(id int64) bool {
	for _, a := range s.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}
