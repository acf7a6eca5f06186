package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"conecta.church/configs"
	"conecta.church/configs/configslog"
	"conecta.church/database"
	"conecta.church/pkg/mailer"
	"conecta.church/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	env := configs.GetEnv("APP_ENV", "development")
	configslog.InitLogger(env)
	defer configslog.Sync()

	db := configs.InitDB()
	if err := database.Initialize(db,
		configs.GetEnvAsBool("DB_AUTO_MIGRATE", true),
		configs.GetEnvAsBool("DB_AUTO_SEED", true),
	); err != nil {
		configslog.Log.Fatal("database initialization failed", zap.Error(err))
	}

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		AppName:      "conecta-forms",
		Views:        engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Static("/assets", "./assets")

	deps := routes.NewDeps(db, mailer.NewLogMailer(configslog.Log))
	routes.SetupRoutes(app, deps)

	addr := ":" + configs.GetEnv("PORT", "3000")
	go func() {
		if err := app.Listen(addr); err != nil {
			configslog.Log.Fatal("server stopped", zap.Error(err))
		}
	}()
	configslog.SLog.Infof("listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("shutdown error", zap.Error(err))
	}
}
