package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/isdelr/mindcare-be/internal/seed"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/store"
)

type fixture struct {
	store        *store.Store
	events       *services.EventService
	resources    *services.ResourceService
	appointments *services.AppointmentService
	forum        *services.ForumService
	dashboards   *services.DashboardService
	users        *services.UserService
}

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return t
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	st := store.New(seed.Fixtures(), store.WithClock(func() time.Time { return now }))
	events := services.NewEventService(50)
	appointments := services.NewAppointmentService(st, events)
	forum := services.NewForumService(st, events)
	return &fixture{
		store:        st,
		events:       events,
		resources:    services.NewResourceService(st, events),
		appointments: appointments,
		forum:        forum,
		dashboards:   services.NewDashboardService(st, appointments, forum),
		users:        services.NewUserService(st),
	}
}

func viewIDs(views []services.AppointmentView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}
