package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"TripAtlas-App/internal/application"
	"TripAtlas-App/internal/database"
	"TripAtlas-App/internal/domain/service"
	"TripAtlas-App/internal/handler"
	infraDatabase "TripAtlas-App/internal/infrastructure/database"
	"TripAtlas-App/internal/infrastructure/maps"
	"TripAtlas-App/internal/repository"
	"TripAtlas-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")
	openRouteAPIKey := os.Getenv("OPENROUTE_API_KEY")

	if postgresURL == "" || supabaseURL == "" || supabaseAnonKey == "" || openRouteAPIKey == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: POSTGRES_URL, SUPABASE_URL, SUPABASE_ANON_KEY, OPENROUTE_API_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	fmt.Println("Initializing PostgreSQL client...")
	postgresClient, err := infraDatabase.NewPostgreSQLClient()
	if err != nil {
		log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
	}
	defer postgresClient.Close()

	fmt.Println("Initializing Supabase client (geo database)...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}

	fmt.Println("Performing health checks...")
	if err := postgresClient.HealthCheck(); err != nil {
		log.Fatalf("PostgreSQLヘルスチェック失敗: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Database connections successful!")

	// リポジトリ・サービス・ユースケースの初期化（グローバル状態を持たず起動時に一度だけ構築する）
	legsRepo := repository.NewPostgresRouteLegsRepository(postgresClient)
	attractionsRepo := repository.NewPostgresAttractionsRepository(postgresClient)
	geoRepo := repository.NewSupabaseGeoRepository(supabaseClient)

	directionsProvider := maps.NewOpenRouteDirectionsProvider(openRouteAPIKey)
	routeBuilder := service.NewRouteBuilderService(directionsProvider, legsRepo)
	routeUseCase := usecase.NewRouteBuildUseCase(routeBuilder, attractionsRepo)
	attractionsService := application.NewAttractionsService(attractionsRepo)

	routeHandler := handler.NewRouteHandler(routeUseCase)
	geoHandler := handler.NewGeoHandler(geoRepo)
	attractionsHandler := handler.NewAttractionsHandler(attractionsService)

	// Ginルーターのセットアップ
	router := gin.Default()
	router.Use(handler.RequestIDMiddleware())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "TripAtlas-App"})
	})

	router.POST("/routes/build", routeHandler.BuildRoute)
	router.GET("/itineraries/days/:id/route", routeHandler.GetItineraryDayRoute)

	router.GET("/geo/countries", geoHandler.GetCountries)
	router.GET("/geo/cities", geoHandler.GetCities)
	router.GET("/geo/cities/nearest", geoHandler.GetNearestCities)

	router.GET("/attractions/:id", attractionsHandler.GetAttraction)
	router.GET("/cities/:id/attractions", attractionsHandler.ListCityAttractions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("TripAtlas-App server starting on :%s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("サーバーの起動に失敗: %v", err)
	}
}
