package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/eventsphere/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.APIURL, convey.ShouldEqual, "http://localhost:5000/api/v1")
			convey.So(cfg.PageLimit, convey.ShouldEqual, 12)
			convey.So(cfg.Debounce(), convey.ShouldEqual, 300*time.Millisecond)
			convey.So(cfg.ScanCooldown(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.RequestTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.DefaultRadiusKM, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then no location is configured", func() {
			_, _, ok, err := cfg.Coordinates()
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"relative api url":   func(c *config.Config) { c.APIURL = "/api" },
			"ftp api url":        func(c *config.Config) { c.APIURL = "ftp://host/api" },
			"zero page limit":    func(c *config.Config) { c.PageLimit = 0 },
			"negative debounce":  func(c *config.Config) { c.DebounceMS = -1 },
			"zero radius":        func(c *config.Config) { c.DefaultRadiusKM = 0 },
			"location sans lng":  func(c *config.Config) { c.Location = "52.52" },
			"latitude past 90":   func(c *config.Config) { c.Location = "91,13" },
			"longitude past 180": func(c *config.Config) { c.Location = "52,-181" },
			"garbled location":   func(c *config.Config) { c.Location = "north,east" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
