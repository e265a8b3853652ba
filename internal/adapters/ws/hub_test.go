package ws_test

import (
	"context"
	"testing"
	"time"

	"github.com/joltlabs/jolt/internal/adapters/ws"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// fakeSession records envelopes; full simulates a saturated buffer.
type fakeSession struct {
	got  []ws.Envelope
	full bool
}

func (f *fakeSession) Send(env ws.Envelope) bool {
	if f.full {
		return false
	}
	f.got = append(f.got, env)
	return true
}

func TestHubBroadcast(t *testing.T) {
	Convey("Given a hub with K connected sessions", t, func() {
		ctx := context.Background()
		h := ws.NewHub()
		sessions := []*fakeSession{{}, {}, {}}
		for _, s := range sessions {
			h.Register(s)
		}
		So(h.Count(), ShouldEqual, 3)

		event := model.Event{ID: "ev-1", Latitude: 12.9, Longitude: 77.6, Intensity: 22.3, Timestamp: time.Now().UTC()}

		Convey("When an event is broadcast", func() {
			h.Broadcast(ctx, event)

			Convey("Then every session receives exactly one envelope", func() {
				for _, s := range sessions {
					So(s.got, ShouldHaveLength, 1)
					So(s.got[0].Event, ShouldEqual, ws.KindBroadcastEvent)
					got, err := s.got[0].DecodeEvent()
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, "ev-1")
					So(got.Intensity, ShouldEqual, 22.3)
				}
			})
		})

		Convey("When one session is saturated", func() {
			sessions[1].full = true
			h.Broadcast(ctx, event)

			Convey("Then the others still receive the event", func() {
				So(sessions[0].got, ShouldHaveLength, 1)
				So(sessions[1].got, ShouldHaveLength, 0)
				So(sessions[2].got, ShouldHaveLength, 1)
			})
		})

		Convey("When a session unregisters", func() {
			h.Unregister(sessions[2])
			h.Broadcast(ctx, event)

			Convey("Then it receives nothing and the count drops", func() {
				So(h.Count(), ShouldEqual, 2)
				So(sessions[2].got, ShouldHaveLength, 0)
				So(sessions[0].got, ShouldHaveLength, 1)
			})
		})

		Convey("When two events are broadcast", func() {
			h.Broadcast(ctx, event)
			second := event
			second.ID = "ev-2"
			h.Broadcast(ctx, second)

			Convey("Then sessions see both, no duplicates", func() {
				So(sessions[0].got, ShouldHaveLength, 2)
				first, _ := sessions[0].got[0].DecodeEvent()
				next, _ := sessions[0].got[1].DecodeEvent()
				So(first.ID, ShouldEqual, "ev-1")
				So(next.ID, ShouldEqual, "ev-2")
			})
		})
	})
}

func TestEnvelope(t *testing.T) {
	Convey("Given channel envelopes", t, func() {
		Convey("When framing and decoding a submission", func() {
			env, err := ws.NewSubmission(model.Submission{Latitude: 1.5, Longitude: -2.5, Intensity: 17})
			So(err, ShouldBeNil)
			So(env.Event, ShouldEqual, ws.KindSubmitDetection)

			sub, err := env.DecodeSubmission()
			So(err, ShouldBeNil)
			So(sub.Latitude, ShouldEqual, 1.5)
			So(sub.Intensity, ShouldEqual, 17.0)
		})

		Convey("When decoding the wrong kind", func() {
			env, err := ws.NewBroadcast(model.Event{ID: "x"})
			So(err, ShouldBeNil)

			_, err = env.DecodeSubmission()
			So(err, ShouldNotBeNil)
		})
	})
}
