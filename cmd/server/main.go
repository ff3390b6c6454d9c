// Command server runs the HTTP scheduling API.
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hupe1980/shiftmesh"
	"github.com/hupe1980/shiftmesh/dataload"
	"github.com/hupe1980/shiftmesh/explain"
	explainopenai "github.com/hupe1980/shiftmesh/explain/openai"
	"github.com/hupe1980/shiftmesh/logging"
	"github.com/hupe1980/shiftmesh/server"
)

func main() {
	// Load .env if it exists; explicit environment always wins.
	_ = godotenv.Load()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "json", Output: os.Stderr, Component: "server"})

	var (
		source dataload.Source
		err    error
	)
	if path := os.Getenv("SHIFTMESH_SQLITE"); path != "" {
		source, err = dataload.NewSQLiteSource(path)
	} else {
		source, err = dataload.NewFileSource(envOr("SHIFTMESH_FIXTURES", "fixtures.yaml"))
	}
	if err != nil {
		log.Fatalf("load data: %v", err)
	}

	scheduler := shiftmesh.New(source, func(o *shiftmesh.Options) { o.Logger = logger })

	var gen explain.Generator
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		gen = explainopenai.NewGenerator(func(o *explainopenai.Options) {
			o.APIKey = key
			o.BaseURL = "https://openrouter.ai/api/v1"
			o.Model = envOr("SHIFTMESH_MODEL", "mistralai/mistral-7b-instruct:free")
		})
	}

	h := &server.Handler{
		Scheduler: scheduler,
		Explainer: explain.NewExplainer(gen, func(o *explain.Options) { o.Logger = logger }),
	}

	addr := envOr("SHIFTMESH_ADDR", ":8080")
	logger.Info("listening", "addr", addr)
	if err := h.Router().Run(addr); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
