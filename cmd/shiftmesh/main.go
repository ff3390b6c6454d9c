// Command shiftmesh runs one scheduling pass from the terminal and prints
// the result, optionally exporting the roster and asking the explanation
// service for a narrative.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hupe1980/shiftmesh"
	"github.com/hupe1980/shiftmesh/compliance"
	"github.com/hupe1980/shiftmesh/dataload"
	"github.com/hupe1980/shiftmesh/explain"
	explainopenai "github.com/hupe1980/shiftmesh/explain/openai"
	"github.com/hupe1980/shiftmesh/export"
	"github.com/hupe1980/shiftmesh/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		fixtures  = flag.String("fixtures", "fixtures.yaml", "YAML fixture file with stores and employees")
		sqlite    = flag.String("sqlite", "", "SQLite database path (overrides -fixtures)")
		storeID   = flag.String("store", "", "store ID to schedule")
		startStr  = flag.String("start", "", "start date (YYYY-MM-DD)")
		days      = flag.Int("days", 7, "number of days to schedule")
		maxIters  = flag.Int("max-iterations", 5, "resolution iteration budget")
		csvPath   = flag.String("csv", "", "write roster CSV to this path")
		explainIt = flag.Bool("explain", false, "generate a narrative summary")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *storeID == "" {
		log.Fatal("missing -store")
	}
	start := time.Now()
	if *startStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", *startStr)
		if err != nil {
			log.Fatalf("invalid -start: %v", err)
		}
	}
	end := start.AddDate(0, 0, *days-1)

	level := logging.LogLevelInfo
	if *verbose {
		level = logging.LogLevelDebug
	}
	logger := logging.NewLogger(&logging.LoggerConfig{Level: level, Format: "text", Output: os.Stderr, Component: "cli"})

	var (
		source dataload.Source
		err    error
	)
	if *sqlite != "" {
		source, err = dataload.NewSQLiteSource(*sqlite)
	} else {
		source, err = dataload.NewFileSource(*fixtures)
	}
	if err != nil {
		log.Fatalf("load data: %v", err)
	}

	scheduler := shiftmesh.New(source, func(o *shiftmesh.Options) {
		o.Logger = logger
		o.Policy = compliance.DefaultPolicy()
	})

	result, err := scheduler.RunSchedule(context.Background(), *storeID, start, end, *maxIters)
	if err != nil {
		log.Fatalf("run schedule: %v", err)
	}

	if err := export.WriteResultJSON(os.Stdout, result); err != nil {
		log.Fatalf("print result: %v", err)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatalf("create %s: %v", *csvPath, err)
		}
		defer f.Close()
		if err := export.WriteRosterCSV(f, result); err != nil {
			// The roster itself is still valid; only the side artifact failed.
			logger.Error("roster export failed", "error", err)
		}
	}

	if *explainIt {
		var gen explain.Generator
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			gen = explainopenai.NewGenerator(func(o *explainopenai.Options) {
				o.APIKey = key
				o.BaseURL = "https://openrouter.ai/api/v1"
				o.Model = "mistralai/mistral-7b-instruct:free"
			})
		}
		explainer := explain.NewExplainer(gen, func(o *explain.Options) { o.Logger = logger })
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, explainer.Explain(context.Background(), result))
	}
}
