package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/eventsphere/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.APIURL, convey.ShouldEqual, "http://localhost:5000/api/v1")
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 300)
				convey.So(cfg.ScanCooldownMS, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EVENTSPHERE_API_URL", "https://api.example.com/v1")
			_ = os.Setenv("EVENTSPHERE_PAGE_LIMIT", "24")
			_ = os.Setenv("EVENTSPHERE_DEBOUNCE_MS", "150")
			_ = os.Setenv("EVENTSPHERE_DEFAULT_RADIUS_KM", "25.5")
			_ = os.Setenv("EVENTSPHERE_LOCATION", "52.52, 13.405")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIURL, convey.ShouldEqual, "https://api.example.com/v1")
				convey.So(cfg.PageLimit, convey.ShouldEqual, 24)
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 150)
				convey.So(cfg.DefaultRadiusKM, convey.ShouldEqual, 25.5)

				lat, lng, ok, err := cfg.Coordinates()
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(lat, convey.ShouldEqual, 52.52)
				convey.So(lng, convey.ShouldEqual, 13.405)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
api_url: "https://file.example.com/api"
page_limit: 6
scan_cooldown_ms: 5000
`
			tmpFile := createTempFile("eventsphere-config-*.yaml", yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTSPHERE_CONFIG", tmpFile)
			_ = os.Setenv("EVENTSPHERE_PAGE_LIMIT", "30") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIURL, convey.ShouldEqual, "https://file.example.com/api") // From file
				convey.So(cfg.PageLimit, convey.ShouldEqual, 30)                          // From env
				convey.So(cfg.ScanCooldownMS, convey.ShouldEqual, 5000)                   // From file
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 300)                        // From defaults
			})
		})

		convey.Convey("When a dotenv file is provided", func() {
			tmpFile := createTempFile("eventsphere-*.env", "EVENTSPHERE_ACCESS_TOKEN=from-dotenv\nEVENTSPHERE_CHECKIN_WORKERS=9\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTSPHERE_DOTENV", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AccessToken, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.CheckInWorkers, convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When the dotenv file named explicitly is missing", func() {
			_ = os.Setenv("EVENTSPHERE_DOTENV", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile("eventsphere-config-*.yaml", `invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTSPHERE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("EVENTSPHERE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty api url", func() {
			_ = os.Setenv("EVENTSPHERE_API_URL", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("EVENTSPHERE_PAGE_LIMIT", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EVENTSPHERE_CONFIG",
		"EVENTSPHERE_DOTENV",
		"EVENTSPHERE_API_URL",
		"EVENTSPHERE_PAGE_LIMIT",
		"EVENTSPHERE_DEBOUNCE_MS",
		"EVENTSPHERE_DEFAULT_RADIUS_KM",
		"EVENTSPHERE_ACCESS_TOKEN",
		"EVENTSPHERE_CHECKIN_WORKERS",
		"EVENTSPHERE_LOCATION",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
