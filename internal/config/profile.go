package config

// Profile is a named analytics preset.
type Profile struct {
	Name       string  `json:"name"`
	TargetRate float64 `json:"target_rate"`
}

// Relaxed is for weeks where most of the board is aspirational.
func Relaxed() Profile {
	return Profile{Name: "relaxed", TargetRate: 0.6}
}

func Standard() Profile {
	return Profile{Name: "standard", TargetRate: 0.8}
}

func Strict() Profile {
	return Profile{Name: "strict", TargetRate: 0.95}
}

// Preset looks a profile up by name.
func Preset(name string) (Profile, bool) {
	switch name {
	case "relaxed":
		return Relaxed(), true
	case "standard":
		return Standard(), true
	case "strict":
		return Strict(), true
	default:
		return Profile{}, false
	}
}
