package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
	"github.com/gymkit/gym-api/internal/database"
	"github.com/gymkit/gym-api/internal/handler"
	"github.com/gymkit/gym-api/internal/middleware"
	"github.com/gymkit/gym-api/internal/queue"
	"github.com/gymkit/gym-api/internal/repository"
	"github.com/gymkit/gym-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// A nil Redis client degrades every cache consumer gracefully:
	// reads hit the database and rate limiting fails open.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting degraded")
	}
	store := cache.New(rdb)
	if !cacheCfg.Enabled {
		store = nil
	}

	members := repository.NewMemberRepo(db, store, cacheCfg)
	machines := repository.NewMachineRepo(db, store, cacheCfg)
	exercises := repository.NewExerciseRepo(db, store, cacheCfg)
	routines := repository.NewRoutineRepo(db, store, cacheCfg)
	links := repository.NewRoutineExerciseRepo(db, store, cacheCfg)

	h := router.Handlers{
		Auth:             handler.NewAuthHandler(cfg, members),
		Members:          handler.NewMemberHandler(cfg, members),
		Machines:         handler.NewMachineHandler(cfg, machines),
		Exercises:        handler.NewExerciseHandler(cfg, exercises),
		Routines:         handler.NewRoutineHandler(cfg, routines),
		RoutineExercises: handler.NewRoutineExerciseHandler(cfg, links, routines, exercises),
	}

	limiter := middleware.NewRateLimiter(cache.New(rdb), rlCfg)
	auth := middleware.APIKeyAuth(members, limiter, rlCfg.FailOpen)
	perms := middleware.DefaultPermissions()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.Register(e, h, auth, perms)

	// Background audit consumer; keeps reconnecting on broker outages.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
