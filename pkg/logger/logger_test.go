package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the logger package", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get should return a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "signup accepted",
				String("activity", "Chess Club"),
				Int("participants", 3),
				Bool("ok", true),
				Duration("took", 2*time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the record should carry every field and the caller", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "signup accepted")
				So(rec["activity"], ShouldEqual, "Chess Club")
				So(rec["participants"], ShouldEqual, 3.0)
				So(rec["ok"], ShouldEqual, true)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger with bound fields", func() {
			Named("api").With(String("request_id", "abc")).Warn(ctx, "slow")

			Convey("Then the name and bound fields should be present", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"logger":"api"`)
				So(out, ShouldContainSubstring, `"request_id":"abc"`)
			})
		})

		Convey("When the level filters out debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
			Reset(func() { _ = SetLevelString("info") })
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)

		for _, lvl := range []string{"debug", "info", "", "WARN", "warning", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}

		err := SetLevelString("verbose")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
