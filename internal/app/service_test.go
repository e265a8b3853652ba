package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joltlabs/jolt/internal/adapters/repository"
	"github.com/joltlabs/jolt/internal/app"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// fakeBroadcaster records broadcast events.
type fakeBroadcaster struct {
	events []model.Event
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, e model.Event) {
	f.events = append(f.events, e)
}

func (f *fakeBroadcaster) Count() int { return 0 }

// failStore rejects every insert.
type failStore struct{}

func (failStore) Insert(context.Context, model.Event) error     { return errors.New("disk full") }
func (failStore) List(context.Context) ([]model.Event, error)   { return nil, nil }
func (failStore) Count(context.Context) (int, error)            { return 0, nil }
func (failStore) Close() error                                  { return nil }

func newService(store repository.Store, hub app.Broadcaster, clock clockwork.Clock) *app.Service {
	n := 0
	return app.New(
		app.WithStore(store),
		app.WithBroadcaster(hub),
		app.WithClock(clock),
		app.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestOnSubmission(t *testing.T) {
	Convey("Given a started coordinator", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		hub := &fakeBroadcaster{}
		clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
		svc := newService(store, hub, clock)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a submission arrives", func() {
			svc.OnSubmission(ctx, model.Submission{Latitude: 12.9, Longitude: 77.6, Intensity: 22.3})

			Convey("Then the store gains exactly one record with server-assigned fields", func() {
				got, err := svc.Events(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].ID, ShouldEqual, "id-1")
				So(got[0].Latitude, ShouldEqual, 12.9)
				So(got[0].Longitude, ShouldEqual, 77.6)
				So(got[0].Intensity, ShouldEqual, 22.3)
				So(got[0].Timestamp.Equal(clock.Now().UTC()), ShouldBeTrue)
			})

			Convey("Then the broadcast carries the persisted event verbatim", func() {
				So(hub.events, ShouldHaveLength, 1)
				stored, _ := svc.Events(ctx)
				So(hub.events[0], ShouldResemble, stored[0])
			})
		})

		Convey("When two submissions arrive at different times", func() {
			svc.OnSubmission(ctx, model.Submission{Intensity: 16})
			clock.Advance(time.Minute)
			svc.OnSubmission(ctx, model.Submission{Intensity: 18})

			Convey("Then the fetch lists them newest first", func() {
				got, err := svc.Events(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Intensity, ShouldEqual, 18.0)
				So(got[1].Intensity, ShouldEqual, 16.0)
			})
		})
	})
}

func TestOnSubmissionPersistFailure(t *testing.T) {
	Convey("Given a coordinator whose store rejects writes", t, func() {
		ctx := context.Background()
		hub := &fakeBroadcaster{}
		svc := newService(failStore{}, hub, clockwork.NewFakeClock())
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a submission arrives", func() {
			svc.OnSubmission(ctx, model.Submission{Intensity: 30})

			Convey("Then no broadcast occurs", func() {
				So(hub.events, ShouldHaveLength, 0)
			})

			Convey("Then a subsequent fetch does not include the failed event", func() {
				got, err := svc.Events(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 0)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service with defaults", t, func() {
		ctx := context.Background()
		svc := app.New()

		Convey("When started without a database URL", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it runs on the in-memory store and a real hub", func() {
				So(svc.Hub(), ShouldNotBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["storedEvents"], ShouldEqual, 0)
				So(stats["connectedChannels"], ShouldEqual, 0)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}
