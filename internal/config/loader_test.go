package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/matchdesk/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		os.Unsetenv("MATCHDESK_CONFIG")
		os.Unsetenv("MATCHDESK_ADDR")
		os.Unsetenv("MATCHDESK_CLAIM_POLICY")

		cfg, err := config.Load(context.Background())

		Convey("Then defaults are returned", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.ClaimPolicy, ShouldEqual, config.ClaimPolicyLastWins)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	Convey("Given env overrides", t, func() {
		os.Unsetenv("MATCHDESK_CONFIG")
		t.Setenv("MATCHDESK_ADDR", ":7070")
		t.Setenv("MATCHDESK_CLAIM_POLICY", "first_wins")
		t.Setenv("MATCHDESK_OUTBOX_SIZE", "256")

		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.ClaimPolicy, ShouldEqual, config.ClaimPolicyFirstWins)
			So(cfg.OutboxSize, ShouldEqual, 256)
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matchdesk.yaml")
		yaml := "addr: \":6060\"\nlog_level: debug\nreplay_guard_size: 128\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("MATCHDESK_CONFIG", path)

		cfg, err := config.Load(context.Background())

		Convey("Then file values are applied", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.ReplayGuardSize, ShouldEqual, 128)
		})

		Convey("And env still wins over the file", func() {
			t.Setenv("MATCHDESK_ADDR", ":6061")
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6061")
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given an invalid claim policy", t, func() {
		os.Unsetenv("MATCHDESK_CONFIG")
		t.Setenv("MATCHDESK_CLAIM_POLICY", "coin_flip")

		_, err := config.Load(context.Background())

		Convey("Then Load fails with the sentinel", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid claim policy")
		})
	})

	Convey("Given an empty addr", t, func() {
		os.Unsetenv("MATCHDESK_CONFIG")
		os.Unsetenv("MATCHDESK_CLAIM_POLICY")
		t.Setenv("MATCHDESK_ADDR", "")

		Convey("Then Load rejects it", func() {
			// An empty env value unmarshals as empty and trips validation.
			_, err := config.Load(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}
