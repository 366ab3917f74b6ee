package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/wolfman30/ohc-assist/cmd/mainconfig"
	"github.com/wolfman30/ohc-assist/internal/app/bootstrap"
	"github.com/wolfman30/ohc-assist/internal/assistant"
	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/internal/rebates"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

var (
	question   = flag.String("q", "How much could I save with a heat pump?", "Chat question to send")
	postalCode = flag.String("postal", "M5V 2T6", "Postal code for the rebate estimate")
	homeSize   = flag.Int("size", rebates.DefaultHomeSize, "Home size bucket (1000, 2000, 3500, 5000)")
	upgrade    = flag.String("upgrade", string(rebates.UpgradeHeatPump), "Upgrade type for the rebate estimate")
)

// llmtest sends one chat turn and one rebate estimate through the configured
// provider with production timings and reports which path answered.
func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout*3)
	defer cancel()

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s provider=%s\n", bold("Generation check"), cfg.GenerationProvider)

	base, err := bootstrap.LoadKnowledge(cfg.KnowledgeFile, logger)
	if err != nil {
		color.Red("load knowledge: %v", err)
		os.Exit(1)
	}
	gen, closeGen, err := bootstrap.BuildGenerator(ctx, cfg, base.Facts(), mainconfig.Loader(cfg), logger)
	if err != nil {
		color.Red("build generator: %v", err)
		os.Exit(1)
	}
	defer func() { _ = closeGen() }()
	if gen == nil {
		color.Yellow("No provider configured; answers will come from the fallback path.")
	}

	svc := assistant.NewService(base, gen, assistant.Config{Timeout: cfg.GenerationTimeout}, logger, nil)

	chat := svc.StartChat()
	start := time.Now()
	reply, err := svc.SubmitChatMessage(ctx, chat.ID(), *question)
	if err != nil {
		color.Red("chat: %v", err)
		os.Exit(1)
	}
	report("chat", reply.Origin, time.Since(start))
	fmt.Printf("  %s\n\n", reply.Payload)

	params := rebates.Params{PostalCode: *postalCode, HomeSize: *homeSize, Upgrade: rebates.UpgradeType(*upgrade)}
	start = time.Now()
	estimate, err := svc.EstimateRebate(ctx, "", params)
	if err != nil {
		color.Red("estimate: %v", err)
		os.Exit(1)
	}
	report("estimate", estimate.Origin, time.Since(start))
	fmt.Printf("  total: %s\n", estimate.Payload.TotalAmount)
	for _, item := range estimate.Payload.Breakdown {
		fmt.Printf("  - %s: %s\n", item.Source, item.Amount)
	}
}

func report(label string, origin pipeline.Origin, elapsed time.Duration) {
	c := color.New(color.FgGreen, color.Bold)
	if origin == pipeline.OriginFallback {
		c = color.New(color.FgYellow, color.Bold)
	}
	c.Printf("[%s] %s in %v\n", label, origin, elapsed.Round(time.Millisecond))
}
