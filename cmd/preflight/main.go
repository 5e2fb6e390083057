// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/statuspage/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	env := func(key string) string {
		return strings.TrimSpace(os.Getenv(config.EnvPrefix + "_" + key))
	}

	cfg, err := config.Load(env("CONFIG"))
	if err != nil {
		fail(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}
	ok("config valid, api_base=" + cfg.APIBase)

	admin := env("ADMIN_API_KEYS")
	pub := env("PUBLIC_API_KEYS")
	if admin == "" {
		warn(config.EnvPrefix + "_ADMIN_API_KEYS is empty (POST /api/refresh is open).")
	}
	if pub == "" {
		warn(config.EnvPrefix + "_PUBLIC_API_KEYS is empty (the page is public).")
	}
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(config.EnvPrefix + "_" + name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	ok("addr=" + cfg.Addr)
	ok("timeframe=" + cfg.Timeframe.String())

	if cfg.SlackWebhook == "" {
		warn("slack_webhook empty; notifications only go to the log.")
	} else {
		ok("slack_webhook present")
	}

	ok("preflight passed")
}
