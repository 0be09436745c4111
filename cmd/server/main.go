package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitejournal/bitejournal/server/handlers"
	"github.com/bitejournal/bitejournal/server/identity"
	"github.com/bitejournal/bitejournal/server/middlewares"
	"github.com/bitejournal/bitejournal/server/session"
	"github.com/bitejournal/bitejournal/utils"
	"github.com/bitejournal/bitejournal/utils/dotenv"
	"github.com/bitejournal/bitejournal/utils/flag"
	"github.com/bitejournal/bitejournal/utils/imghost"
	. "github.com/bitejournal/bitejournal/utils/log"
	"github.com/bitejournal/bitejournal/utils/token"
)

func newSessionStore(db *gorm.DB) session.Store {
	if os.Getenv("REDIS_HOST") != "" {
		return session.NewRedisStore()
	}
	return session.NewDBStore(db)
}

func main() {
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	tokens := token.NewManagerFromEnv()
	middlewares.Setup(tokens)

	handler := handlers.New(
		db,
		tokens,
		newSessionStore(db),
		identity.NewGoogleVerifier(),
		imghost.NewClientFromEnv(),
	)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	handler.RegisterRoutes(router)

	Log.Info("api server starts up")
	router.Run(":8080")
}
