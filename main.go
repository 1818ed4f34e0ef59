package main

import (
	"context"
	"log"
	"os"

	"parkslot/handlers"
	"parkslot/routes"
	"parkslot/services"
	"parkslot/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	ctx := context.Background()
	st := initStore(ctx)

	registry := services.NewRegistry(st)
	ledger := services.NewLedger(st)
	workflow := services.NewWorkflow(st, registry, ledger)
	reconciler := services.NewReconciler(st)

	// Warm the projections. A cold store is not fatal; the dashboard
	// reloads on every request and will recover once the store is back.
	if _, err := registry.Load(ctx); err != nil {
		log.Printf("Initial slot load failed: %v", err)
	}
	if _, err := ledger.Load(ctx); err != nil {
		log.Printf("Initial reservation load failed: %v", err)
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	r := gin.Default()

	slotHandler := handlers.NewSlotHandler(registry, workflow)
	reservationHandler := handlers.NewReservationHandler(ledger, workflow)

	api := r.Group("/api")
	{
		routes.Path(api, slotHandler, reservationHandler)
	}

	// Periodic sweep repairing slot/reservation pairs a partial release
	// or crash left behind.
	schedule := os.Getenv("RECONCILE_CRON")
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		log.Println("Checking for orphaned slots and reservations...")
		if _, err := reconciler.Run(context.Background()); err != nil {
			log.Printf("Failed to reconcile slots and reservations: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule reconcile cron job: %v", err)
	}
	c.Start()
	log.Println("Cron jobs started")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initStore selects the store backend from the environment. Mongo is
// the default; the memory backend exists for local runs without a
// database.
func initStore(ctx context.Context) store.Store {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "memory" {
		log.Println("Using in-memory store backend")
		return store.NewMemoryStore()
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "parkingdb"
	}

	st, err := store.NewMongoStore(ctx, uri, dbName)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	return st
}
