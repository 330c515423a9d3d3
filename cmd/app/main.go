package main

import (
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/farmdirect/farmdirect-backend/internal/cart"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/insights"
	"github.com/farmdirect/farmdirect-backend/internal/listing"
	"github.com/farmdirect/farmdirect-backend/internal/order"
	"github.com/farmdirect/farmdirect-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		panic("JWT_SECRET is not set")
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New())

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	bootstrapSchema(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer redisClient.Close()

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	listingService := listing.NewService(listing.NewPostgresRepository(db), userService)
	listingHandler := listing.NewHandler(listingService)

	cartRepo := cart.NewRedisRepository(redisClient)
	cartHandler := cart.NewHandler(cartRepo, listingService, userService)

	orderService := order.NewService(order.NewPostgresRepository(db), listingService, userService)
	orderHandler := order.NewHandler(orderService, cartRepo)

	insightsHandler := insights.NewHandler(insights.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIModel))

	// uploaded produce and avatar images are served as plain static files
	app.Static("/uploads", "./uploads")

	// routes registered before the JWT middleware stay public
	userHandler.RegisterPublicRoutes(app)
	listingHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	listingHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	insightsHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// bootstrapSchema creates missing tables on startup. Statements are
// additive only so existing installations keep their data.
func bootstrapSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id UUID PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            full_name TEXT NOT NULL,
            phone TEXT,
            location TEXT,
            avatar_url TEXT,
            role TEXT NOT NULL,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS produce_listings (
            listing_id UUID PRIMARY KEY,
            farmer_id UUID NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            category TEXT NOT NULL,
            price_per_unit NUMERIC NOT NULL DEFAULT 0,
            unit TEXT NOT NULL,
            quantity_available INT NOT NULL DEFAULT 0,
            image_url TEXT,
            is_available BOOLEAN NOT NULL DEFAULT TRUE,
            harvest_date TEXT,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            order_id UUID PRIMARY KEY,
            buyer_id UUID NOT NULL,
            farmer_id UUID NOT NULL,
            total_amount NUMERIC NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            delivery_address TEXT,
            notes TEXT,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_item_id UUID PRIMARY KEY,
            order_id UUID NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
            listing_id UUID NOT NULL,
            quantity INT NOT NULL,
            price_per_unit NUMERIC NOT NULL,
            total_price NUMERIC NOT NULL
        )`,
		// columns added after the first release
		`ALTER TABLE produce_listings ADD COLUMN IF NOT EXISTS harvest_date TEXT`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS avatar_url TEXT`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(fmt.Sprintf("schema bootstrap failed: %v", err))
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders (buyer_id, created_at DESC)`); err != nil {
		fmt.Printf("warning: could not create buyer index: %v\n", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_farmer ON orders (farmer_id, created_at DESC)`); err != nil {
		fmt.Printf("warning: could not create farmer index: %v\n", err)
	}
}
