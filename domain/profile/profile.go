// Package profile holds the per-session user profile.
package profile

// Profile is the single per-session user profile. The in-memory copy is
// authoritative; the remote row is a best-effort mirror.
type Profile struct {
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	GoalWeight    float64 `json:"goalWeight"`
	DailyCalories int     `json:"dailyCalories"`
	Height        float64 `json:"height"`
}

// Default returns the profile created on first use.
func Default() Profile {
	return Profile{
		Name:          "Alex Wang",
		Weight:        68.5,
		GoalWeight:    65.0,
		DailyCalories: 2000,
		Height:        175,
	}
}
