package main

import (
	"github.com/pixeltool/presenced/core/server"
	"github.com/pixeltool/presenced/integration/database/pg"
	"github.com/pixeltool/presenced/integration/database/redis"
	"github.com/pixeltool/presenced/internal/presence"
)

type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"presenced"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	Presence presence.Config
	Redis    redis.Config
	DB       pg.Config
	Server   server.Config
}
