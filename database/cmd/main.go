package main

import (
	"flag"

	"conecta.church/configs"
	"conecta.church/configs/configslog"
	"conecta.church/database"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Standalone migration/seed runner:
//
//	go run ./database/cmd -migrate -seed
func main() {
	migrate := flag.Bool("migrate", false, "run schema migrations")
	seed := flag.Bool("seed", false, "run idempotent seeders")
	flag.Parse()

	_ = godotenv.Load()
	configslog.InitLogger(configs.GetEnv("APP_ENV", "development"))
	defer configslog.Sync()

	db := configs.InitDB()
	if err := database.Initialize(db, *migrate, *seed); err != nil {
		configslog.Log.Fatal("database initialization failed", zap.Error(err))
	}
	configslog.SLog.Info("done")
}
