package vqe

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRateLimiter(t *testing.T) {
	Convey("Given a new rate limiter", t, func() {
		limiter := NewRateLimiter(100, time.Second)

		Convey("It should start with a full bucket", func() {
			So(limiter, ShouldNotBeNil)
			So(limiter.tokens, ShouldEqual, 100)
			So(limiter.maxTokens, ShouldEqual, 100)
			So(limiter.refillRate, ShouldEqual, time.Second)
		})

		Convey("Observing metrics should leave the bucket alone", func() {
			metrics := NewMetrics()
			metrics.recordEvaluation(Evaluation{Source: SourceSimulator, HardwareErr: ErrHardwareRegulated})
			limiter.Observe(metrics)
			So(limiter.tokens, ShouldEqual, 100)
			So(limiter.Limit(), ShouldBeFalse)
			So(limiter.tokens, ShouldEqual, 99)
		})
	})
}

func TestRateLimiterLimit(t *testing.T) {
	Convey("Given a rate limiter with 2 tokens", t, func() {
		limiter := NewRateLimiter(2, time.Hour)

		Convey("The third call should be limited", func() {
			So(limiter.Limit(), ShouldBeFalse)
			So(limiter.Limit(), ShouldBeFalse)
			So(limiter.Limit(), ShouldBeTrue)
		})
	})
}

func TestRateLimiterRefill(t *testing.T) {
	Convey("Given a drained rate limiter", t, func() {
		limiter := NewRateLimiter(3, 200*time.Millisecond)

		So(limiter.Limit(), ShouldBeFalse)
		So(limiter.Limit(), ShouldBeFalse)
		So(limiter.Limit(), ShouldBeFalse)
		So(limiter.Limit(), ShouldBeTrue)

		Convey("It should add one token per elapsed period", func() {
			time.Sleep(250 * time.Millisecond)
			limiter.Renormalize()

			So(limiter.tokens, ShouldEqual, 1)
			So(limiter.Limit(), ShouldBeFalse)
			So(limiter.Limit(), ShouldBeTrue)
		})
	})

	Convey("Given a rate limiter without a refill period", t, func() {
		limiter := NewRateLimiter(1, 0)

		Convey("It should never run dry", func() {
			for i := 0; i < 5; i++ {
				So(limiter.Limit(), ShouldBeFalse)
			}
		})
	})
}
