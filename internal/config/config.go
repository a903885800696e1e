package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "WELLCAL_"

type Application struct {
	Listen    string    `koanf:"listen" validate:"required"`
	Frontend  Frontend  `koanf:"frontend"`
	Store     Store     `koanf:"store"`
	Database  Database  `koanf:"db"`
	Ledger    Ledger    `koanf:"ledger"`
	Calendar  Calendar  `koanf:"calendar"`
	Activity  Activity  `koanf:"activity"`
	RateLimit RateLimit `koanf:"ratelimit"`
}

type Frontend struct {
	// Origins allowed to call the API from a browser. Empty allows any origin.
	Origins []string `koanf:"origins"`
}

type Store struct {
	Backend string `koanf:"backend" validate:"oneof=memory sqlite postgres redis"`
	SQLite  SQLite `koanf:"sqlite"`
	Redis   Redis  `koanf:"redis"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
	Prefix   string `koanf:"prefix"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Ledger struct {
	Mode     string `koanf:"mode" validate:"oneof=counting exclusive"`
	VoteLock bool   `koanf:"votelock"`
}

type Calendar struct {
	// WeekStart is the first column of the month grid, 0 = Sunday.
	WeekStart int `koanf:"weekstart" validate:"gte=0,lte=6"`
}

type Activity struct {
	Size int `koanf:"size" validate:"gte=1"`
}

type RateLimit struct {
	// RPS of 0 disables rate limiting.
	RPS   float64 `koanf:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

func defaults() Application {
	return Application{
		Listen: ":8181",
		Store: Store{
			Backend: "memory",
			SQLite: SQLite{
				Path: "wellcal.db",
			},
			Redis: Redis{
				Addr:   "localhost:6379",
				DB:     0,
				Prefix: "wellcal:",
			},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "wellcal",
			Pass:   "",
			Name:   "wellcal",
			Schema: "wellcal",
		},
		Ledger: Ledger{
			Mode:     "counting",
			VoteLock: true,
		},
		Calendar: Calendar{
			WeekStart: 0,
		},
		Activity: Activity{
			Size: 50,
		},
		RateLimit: RateLimit{
			RPS:   5,
			Burst: 10,
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := validator.New().Struct(app); err != nil {
		return Application{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return app, nil
}
