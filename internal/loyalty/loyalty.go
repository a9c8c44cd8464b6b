// Package loyalty derives a customer tier from cumulative booked hours.
package loyalty

// Level describes one loyalty tier.
type Level struct {
	Name     string  `json:"name"`
	Benefit  string  `json:"benefit"`
	Progress float64 `json:"progress"`
	Color    string  `json:"color"`
}

// Tier thresholds are inclusive on the lower bound.
const (
	RockstarHours    = 50
	ProMusicianHours = 20
	GarageBandHours  = 5
)

// LevelFor maps total booked hours (sum of durations for one phone
// number) to a tier, evaluated highest-first.
func LevelFor(totalHours int) Level {
	switch {
	case totalHours >= RockstarHours:
		return Level{
			Name:     "Rockstar",
			Benefit:  "Diskon 15% booking selanjutnya!",
			Progress: 1.0,
			Color:    "gold",
		}
	case totalHours >= ProMusicianHours:
		return Level{
			Name:     "Pro Musician",
			Benefit:  "Diskon 10% booking selanjutnya!",
			Progress: 0.7,
			Color:    "orange",
		}
	case totalHours >= GarageBandHours:
		return Level{
			Name:     "Garage Band",
			Benefit:  "Diskon 5% (Member setia)",
			Progress: 0.4,
			Color:    "blue",
		}
	default:
		return Level{
			Name:     "Newcomer",
			Benefit:  "Main 5 jam lagi untuk dapat diskon!",
			Progress: 0.1,
			Color:    "gray",
		}
	}
}
