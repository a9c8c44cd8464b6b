// Package clock isolates the studio's fixed WIB (UTC+7) wall time so
// the rest of the code never consults the server locale directly.
package clock

import "time"

// WIB is the studio timezone. The business runs on Indonesian western
// time regardless of where the process is deployed.
var WIB = time.FixedZone("WIB", 7*60*60)

const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// Studio is the production clock.
type Studio struct{}

func (Studio) Now() time.Time { return time.Now().In(WIB) }

// Fixed always reports the same instant; used in tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T.In(WIB) }

// Today formats the clock's current studio-local date.
func Today(c Clock) string {
	return c.Now().In(WIB).Format(DateLayout)
}
