package timezone

import (
	"time"
	_ "time/tzdata"
)

// the target API lives in Brazil, its session cookies carry
// z.tz=America/Sao_Paulo, so reports are stamped in that zone unless
// configured otherwise.
const DefaultLocation = "America/Sao_Paulo"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation(DefaultLocation)
	if err != nil {
		panic(err)
	}
}

// SetLocation switches the zone used by Now, an empty name keeps the
// current one.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

func Now() time.Time {
	return time.Now().In(Location)
}

// Timestamp formats a time the way probe reports print it.
func Timestamp(t time.Time) string {
	return t.In(Location).Format("2006-01-02 15:04:05")
}
