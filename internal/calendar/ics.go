package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"
)

// ICS serializes events as an iCalendar feed so the agenda can be
// subscribed to from external calendar clients.
func ICS(events []Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//vitalsalud//agenda//ES")

	for _, e := range events {
		ev := cal.AddEvent(e.ID + "@agenda.vitalsalud")
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Title)
		if e.Props.Specialty != "" {
			ev.SetDescription(e.Props.Specialty)
		}
	}

	return cal.Serialize()
}
