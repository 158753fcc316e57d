package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/handler"
	"github.com/gymkit/gym-api/internal/middleware"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth             *handler.AuthHandler
	Members          *handler.MemberHandler
	Machines         *handler.MachineHandler
	Exercises        *handler.ExerciseHandler
	Routines         *handler.RoutineHandler
	RoutineExercises *handler.RoutineExerciseHandler
}

// Register wires the whole route table. The public surface is the
// health check and registration; everything else runs behind the
// API-key middleware followed by the permission guard for its
// (resource, action) pair. Authentication always precedes
// authorization; within one request the chain is strictly sequential.
func Register(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, perms middleware.Permissions) {
	// Public endpoints.
	e.GET("/healthz", handler.Health)
	e.POST("/v1/register", h.Auth.Register)

	// Everything under /v1 requires a valid, active API key.
	g := e.Group("/v1", auth)

	g.GET("/me", h.Auth.Me)

	// ---- Admin credential management ----
	g.GET("/admin/keys", h.Auth.ListKeys, perms.Check("credentials", middleware.ActionRead))
	g.PUT("/admin/keys/:key/activate", h.Auth.ActivateKey, perms.Check("credentials", middleware.ActionUpdate))
	g.PUT("/admin/keys/:key/deactivate", h.Auth.DeactivateKey, perms.Check("credentials", middleware.ActionUpdate))

	// ---- Members ----
	g.GET("/members", h.Members.List, perms.Check("members", middleware.ActionRead))
	g.GET("/members/status/:status", h.Members.ListByStatus, perms.Check("members", middleware.ActionRead))
	g.GET("/members/:id", h.Members.Get, perms.Check("members", middleware.ActionRead))
	g.POST("/members", h.Members.Create, perms.Check("members", middleware.ActionCreate))
	g.PUT("/members/:id", h.Members.Update, perms.Check("members", middleware.ActionUpdate))
	g.DELETE("/members/:id", h.Members.Delete, perms.Check("members", middleware.ActionDelete))

	// ---- Machines ----
	g.GET("/machines", h.Machines.List, perms.Check("machines", middleware.ActionRead))
	g.GET("/machines/status/:status", h.Machines.ListByStatus, perms.Check("machines", middleware.ActionRead))
	g.GET("/machines/type/:type", h.Machines.ListByType, perms.Check("machines", middleware.ActionRead))
	g.GET("/machines/:id", h.Machines.Get, perms.Check("machines", middleware.ActionRead))
	g.POST("/machines", h.Machines.Create, perms.Check("machines", middleware.ActionCreate))
	g.PUT("/machines/:id", h.Machines.Update, perms.Check("machines", middleware.ActionUpdate))
	g.DELETE("/machines/:id", h.Machines.Delete, perms.Check("machines", middleware.ActionDelete))

	// ---- Exercises ----
	g.GET("/exercises", h.Exercises.List, perms.Check("exercises", middleware.ActionRead))
	g.GET("/exercises/group/:group", h.Exercises.ListByMuscleGroup, perms.Check("exercises", middleware.ActionRead))
	g.GET("/exercises/:id", h.Exercises.Get, perms.Check("exercises", middleware.ActionRead))
	g.POST("/exercises", h.Exercises.Create, perms.Check("exercises", middleware.ActionCreate))
	g.PUT("/exercises/:id", h.Exercises.Update, perms.Check("exercises", middleware.ActionUpdate))
	g.DELETE("/exercises/:id", h.Exercises.Delete, perms.Check("exercises", middleware.ActionDelete))

	// ---- Routines ----
	g.GET("/routines", h.Routines.List, perms.Check("routines", middleware.ActionRead))
	g.GET("/routines/difficulty/:level", h.Routines.ListByDifficulty, perms.Check("routines", middleware.ActionRead))
	g.GET("/routines/:id", h.Routines.Get, perms.Check("routines", middleware.ActionRead))
	g.POST("/routines", h.Routines.Create, perms.Check("routines", middleware.ActionCreate))
	g.PUT("/routines/:id", h.Routines.Update, perms.Check("routines", middleware.ActionUpdate))
	g.DELETE("/routines/:id", h.Routines.Delete, perms.Check("routines", middleware.ActionDelete))

	// ---- Routine exercises (link table) ----
	g.GET("/routine-exercises", h.RoutineExercises.List, perms.Check("routine_exercises", middleware.ActionRead))
	g.GET("/routines/:id/exercises", h.RoutineExercises.ListByRoutine, perms.Check("routine_exercises", middleware.ActionRead))
	g.GET("/exercises/:id/routines", h.RoutineExercises.ListByExercise, perms.Check("routine_exercises", middleware.ActionRead))
	g.GET("/routine-exercises/:id", h.RoutineExercises.Get, perms.Check("routine_exercises", middleware.ActionRead))
	g.POST("/routine-exercises", h.RoutineExercises.Create, perms.Check("routine_exercises", middleware.ActionCreate))
	g.PUT("/routine-exercises/:id", h.RoutineExercises.Update, perms.Check("routine_exercises", middleware.ActionUpdate))
	g.DELETE("/routine-exercises/:id", h.RoutineExercises.Delete, perms.Check("routine_exercises", middleware.ActionDelete))
}
