// @title           Montago API
// @version         1.0
// @description     Montago Backend API - handover protocol generation and intake for furniture-assembly orders.

// @contact.name   API Support
// @contact.url    https://montago.example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"montago/document"
	"montago/handlers"
	"montago/intake"
	"montago/repository"
	"montago/services"
	"montago/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://montago.example.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func allowedExtensions() []string {
	raw := os.Getenv("PROTOCOL_EXTENSIONS")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		exts = append(exts, p)
	}
	return exts
}

func main() {
	db := storage.InitGormDB()

	files, err := storage.NewFileStore(os.Getenv("PROTOCOL_DIR"))
	if err != nil {
		log.Fatal("Failed to initialize file store:", err)
	}

	pricing := services.LoadPricingConfig()
	document.RegisterStandardVariants(pricing, document.LoadCompanyInfo())

	pipeline := intake.NewPipeline(db, files, allowedExtensions())
	mailer := services.NewEmailService()

	// Expired verification tokens are purged nightly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("15 3 * * *", func() {
		purged, err := repository.PurgeExpiredTokens(db)
		if err != nil {
			log.Printf("token purge failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("purged %d expired verification tokens", purged)
		}
	}); err != nil {
		log.Fatal("Failed to schedule token purge:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := gin.Default()
	router.Use(cors.New(CORSConfig()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/document-preview", handlers.PreviewDocument())
		api.GET("/orders/:number/document", handlers.GenerateDocument(db))
		api.POST("/orders/:number/document", handlers.PersistDocument(db, files))
		api.POST("/orders/:number/document/send", handlers.SendDocument(db, mailer))
		api.GET("/orders/:number/price", handlers.GetOrderPrice(db, pricing))
		api.GET("/orders/:number/activity", handlers.GetOrderActivity(db))
		api.POST("/orders/:number/protocol", handlers.SubmitProtocol(db, pipeline))
		api.GET("/orders/:number/protocol", handlers.GetProtocolFile(db, files))
		api.POST("/orders/:number/verification-link", handlers.IssueVerificationLink(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}
}
