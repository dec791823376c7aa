package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/okian/harrier/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)
			So(func() {
				log.Info(t.Context(), "hello", logger.String("k", "v"))
			}, ShouldNotPanic)
		})

		Convey("Then Named returns a scoped logger", func() {
			So(logger.Named("scoring"), ShouldNotBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known level names parse", func() {
			for _, level := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(logger.SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("Then an unknown level fails", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})

		Convey("Then SetLevel takes effect immediately", func() {
			logger.SetLevel(slog.LevelError)
			So(func() {
				logger.Get().Debug(t.Context(), "suppressed")
			}, ShouldNotPanic)
			logger.SetLevel(slog.LevelInfo)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Field constructors carry their keys and values", t, func() {
		So(logger.String("a", "b"), ShouldResemble, logger.Field{Key: "a", Value: "b"})
		So(logger.Int("n", 3), ShouldResemble, logger.Field{Key: "n", Value: 3})
		So(logger.Float64("f", 0.5), ShouldResemble, logger.Field{Key: "f", Value: 0.5})

		err := errors.New("boom")
		So(logger.Error(err), ShouldResemble, logger.Field{Key: "error", Value: err})
	})
}
