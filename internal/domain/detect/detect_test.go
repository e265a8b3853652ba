package detect_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joltlabs/jolt/internal/domain/detect"
	"github.com/joltlabs/jolt/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluate(t *testing.T) {
	Convey("Given the pure evaluate function", t, func() {
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		Convey("When magnitude exceeds the threshold and the cooldown has elapsed", func() {
			dec := detect.Evaluate(model.NewSample(20, 0, 0), 15, base, base.Add(2*time.Second))

			Convey("Then it fires with the exact magnitude", func() {
				So(dec.Fires, ShouldBeTrue)
				So(dec.Magnitude, ShouldEqual, 20.0)
			})
		})

		Convey("When magnitude is below the threshold", func() {
			dec := detect.Evaluate(model.NewSample(5, 5, 5), 15, base, base.Add(time.Hour))

			Convey("Then it never fires regardless of elapsed time", func() {
				So(dec.Fires, ShouldBeFalse)
				So(dec.Magnitude, ShouldAlmostEqual, 8.66, 0.01)
			})
		})

		Convey("When magnitude equals the threshold exactly", func() {
			dec := detect.Evaluate(model.NewSample(15, 0, 0), 15, base, base.Add(time.Hour))

			Convey("Then it does not fire (strictly greater is required)", func() {
				So(dec.Fires, ShouldBeFalse)
			})
		})

		Convey("When the cooldown has not elapsed", func() {
			dec := detect.Evaluate(model.NewSample(20, 0, 0), 15, base, base.Add(500*time.Millisecond))

			Convey("Then a qualifying magnitude is suppressed", func() {
				So(dec.Fires, ShouldBeFalse)
				So(dec.Magnitude, ShouldEqual, 20.0)
			})
		})

		Convey("When exactly one cooldown has elapsed", func() {
			dec := detect.Evaluate(model.NewSample(20, 0, 0), 15, base, base.Add(detect.Cooldown))

			Convey("Then it still does not fire (strictly greater is required)", func() {
				So(dec.Fires, ShouldBeFalse)
			})
		})

		Convey("When called twice with identical inputs", func() {
			s := model.NewSample(17, 3, 1)
			a := detect.Evaluate(s, 15, base, base.Add(3*time.Second))
			b := detect.Evaluate(s, 15, base, base.Add(3*time.Second))

			Convey("Then both decisions are identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestDetector(t *testing.T) {
	Convey("Given a detector with a fake clock", t, func() {
		clock := clockwork.NewFakeClock()
		d := detect.New(detect.WithClock(clock))

		Convey("When a strong sample arrives", func() {
			dec := d.Check(model.NewSample(20, 0, 0))

			Convey("Then it fires", func() {
				So(dec.Fires, ShouldBeTrue)
			})

			Convey("And a second strong sample 500ms later is suppressed", func() {
				clock.Advance(500 * time.Millisecond)
				second := d.Check(model.NewSample(20, 0, 0))
				So(second.Fires, ShouldBeFalse)
				So(second.Magnitude, ShouldEqual, 20.0)
			})

			Convey("And a strong sample after the cooldown fires again", func() {
				clock.Advance(detect.Cooldown + time.Millisecond)
				second := d.Check(model.NewSample(20, 0, 0))
				So(second.Fires, ShouldBeTrue)
			})
		})

		Convey("When many strong samples arrive within one cooldown window", func() {
			fires := 0
			for i := 0; i < 50; i++ {
				if d.Check(model.NewSample(25, 0, 0)).Fires {
					fires++
				}
				clock.Advance(10 * time.Millisecond)
			}

			Convey("Then at most one fires", func() {
				So(fires, ShouldEqual, 1)
			})
		})

		Convey("When strong samples race from multiple goroutines", func() {
			var (
				wg    sync.WaitGroup
				mu    sync.Mutex
				fires int
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if d.Check(model.NewSample(30, 0, 0)).Fires {
						mu.Lock()
						fires++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then the check-and-set admits exactly one fire", func() {
				So(fires, ShouldEqual, 1)
			})
		})
	})
}

func TestDetectorThreshold(t *testing.T) {
	Convey("Given a detector", t, func() {
		d := detect.New()

		Convey("Then the default threshold is 15", func() {
			So(d.Threshold(), ShouldEqual, detect.DefaultThreshold)
		})

		Convey("When setting a threshold inside the range", func() {
			So(d.SetThreshold(20), ShouldEqual, 20.0)
			So(d.Threshold(), ShouldEqual, 20.0)
		})

		Convey("When setting a threshold outside the range", func() {
			So(d.SetThreshold(1), ShouldEqual, detect.MinThreshold)
			So(d.SetThreshold(99), ShouldEqual, detect.MaxThreshold)
		})

		Convey("When constructed with an out-of-range threshold", func() {
			low := detect.New(detect.WithThreshold(0))
			So(low.Threshold(), ShouldEqual, detect.MinThreshold)
		})
	})
}
