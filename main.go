package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/api/handlers"
	"github.com/ParthRana1023/ai-courtroom/api/scheduler"
	"github.com/ParthRana1023/ai-courtroom/config"
)

func main() {
	_ = godotenv.Load()

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(a.CaseDB(), a.ArgumentLimiter, a.CaseGenLimiter)
	s.Start()
	defer s.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("ai-courtroom is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
