package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/AdamHarish25/SentinelTrade/internal/common"
	"github.com/AdamHarish25/SentinelTrade/internal/config"
	"github.com/AdamHarish25/SentinelTrade/internal/fundamental"
	"github.com/AdamHarish25/SentinelTrade/internal/market"
	"github.com/AdamHarish25/SentinelTrade/internal/provider"
	"github.com/AdamHarish25/SentinelTrade/internal/scanner"
	"github.com/AdamHarish25/SentinelTrade/internal/web"
	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

var (
	cfgFile      string
	port         int
	symbolList   []string
	format       string
	minCapT      float64
	bluechipOnly bool
	mockData     bool
)

func main() {
	// Optional .env for local development; missing file is fine
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "sentinel",
		Short: "IDX stealth accumulation scanner",
		Long: `Sentinel scores Indonesian stock-exchange tickers for signs of quiet
institutional accumulation versus distribution, using daily price/volume
history and a fundamental quality gate ("anti-gorengan" filter).

Examples:
  sentinel scan
  sentinel scan --symbols BBCA,TLKM --format json
  sentinel serve --port 8080
  sentinel fundamentals`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&mockData, "mock", false, "force synthetic data instead of live fetch")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print the watchlist",
		RunE:  runScan,
	}
	scanCmd.Flags().StringSliceVar(&symbolList, "symbols", nil, "explicit symbols to scan (default: quality-filtered universe)")
	scanCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	scanCmd.Flags().Float64Var(&minCapT, "min-cap", 0, "override minimum market cap in trillions")
	scanCmd.Flags().BoolVar(&bluechipOnly, "bluechip", false, "restrict universe to bluechips (>=50T market cap)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	fundamentalsCmd := &cobra.Command{
		Use:   "fundamentals",
		Short: "Show the catalog and quality-filter audit",
		RunE:  runFundamentals,
	}

	rootCmd.AddCommand(scanCmd, serveCmd, fundamentalsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type engine struct {
	cfg        *config.Config
	logger     *common.Logger
	catalog    *fundamental.Catalog
	aggregator *market.Aggregator
	scanner    *scanner.Scanner
}

func buildEngine() (*engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if mockData {
		cfg.EODHD.UseMock = true
	}
	if minCapT > 0 {
		cfg.Filter.MinMarketCapT = minCapT
	}
	if bluechipOnly {
		cfg.Filter.BluechipOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := common.NewLogger(cfg.Log.Level)

	catalog, err := fundamental.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading fundamental catalog: %w", err)
	}

	var live provider.HistorySource
	if cfg.EODHD.Token != "" && !cfg.EODHD.UseMock {
		live = provider.NewEODHDSource(cfg.EODHD.Token,
			provider.WithBaseURL(cfg.EODHD.BaseURL),
			provider.WithRateLimit(cfg.EODHD.RateLimit),
		)
	}
	synthetic := provider.NewSyntheticSource(time.Now().UnixNano())
	source := provider.NewFallbackSource(live, synthetic, cfg.EODHD.UseMock, logger)

	sc := scanner.NewScanner(source, cfg.Scanner.BatchSize, cfg.Scanner.HistoryDays, cfg.Scanner.Timeout, logger)

	filter := fundamental.FilterParams{
		MinMarketCapT: cfg.Filter.MinMarketCapT,
		MaxDER:        cfg.Filter.MaxDER,
		MinROE:        cfg.Filter.MinROE,
		BluechipOnly:  cfg.Filter.BluechipOnly,
	}

	aggregator := market.NewAggregator(catalog, sc, filter, cfg.Scanner.UniverseLimit, logger)

	return &engine{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		aggregator: aggregator,
		scanner:    sc,
	}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}

	listenPort := eng.cfg.Server.Port
	if port > 0 {
		listenPort = port
	}

	server := web.NewServer(eng.aggregator, eng.catalog, eng.logger)

	// Shut down cleanly on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	return server.Start(listenPort)
}

func runScan(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}

	var tickers []string
	for _, sym := range symbolList {
		if s := normalizeSymbol(sym); s != "" {
			tickers = append(tickers, s)
		}
	}

	total := len(tickers)
	if total == 0 {
		total = eng.cfg.Scanner.UniverseLimit
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	eng.scanner.SetProgressCallback(func(scanned, total int) {
		bar.ChangeMax(total)
		bar.Set(scanned)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot, err := eng.aggregator.Snapshot(ctx, tickers)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}
	return outputSnapshotTable(snapshot)
}

func runFundamentals(cmd *cobra.Command, args []string) error {
	catalog, err := fundamental.NewCatalog()
	if err != nil {
		return fmt.Errorf("loading fundamental catalog: %w", err)
	}

	metrics := catalog.GetMetrics()
	fmt.Printf("Catalog: %d companies, %d pass the default quality filter\n\n", metrics.Total, metrics.Passed)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Name", "Sector", "Cap (T)", "DER", "ROE", "Group"}),
	)

	for _, c := range catalog.All() {
		name := c.Name
		if len(name) > 24 {
			name = name[:24] + "..."
		}
		table.Append([]string{
			c.Symbol,
			name,
			c.Sector,
			fmt.Sprintf("%.0f", c.MarketCapT()),
			fmt.Sprintf("%.1f", c.DER),
			fmt.Sprintf("%.0f%%", c.ROE),
			c.Conglomerate,
		})
	}

	table.Render()
	return nil
}

func outputSnapshotTable(snapshot *model.MarketSnapshot) error {
	if len(snapshot.Watchlist) == 0 {
		fmt.Println("No tickers produced a valid analysis.")
		return nil
	}

	fmt.Printf("Scanned %d of %d candidates, %d stealth candidates found\n\n",
		snapshot.AuditTrail.QualityPassed, snapshot.AuditTrail.UniverseSize, snapshot.AuditTrail.StealthFound)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Price", "Chg%", "Flow", "RVOL", "OBV", "Score", "Stealth", "Source"}),
	)

	for _, item := range snapshot.Watchlist {
		stealth := ""
		if item.IsStealth {
			stealth = "YES"
		}
		table.Append([]string{
			item.Symbol,
			fmt.Sprintf("%.0f", item.Price),
			fmt.Sprintf("%+.2f%%", item.ChangePercent),
			string(item.Flow),
			fmt.Sprintf("%.2f", item.VolumeFlowAnalysis.RVOL),
			string(item.VolumeFlowAnalysis.OBVTrend),
			fmt.Sprintf("%d", item.AccumulationQuality),
			stealth,
			string(item.DataSource),
		})
	}

	table.Render()

	openState := "closed"
	if snapshot.IsExchangeOpen {
		openState = "open"
	}
	fmt.Printf("\nSentiment: %d/100 | Inflow %d / Outflow %d / Neutral %d | IDX %s\n",
		snapshot.MarketSentiment,
		snapshot.FlowTally.Accumulation, snapshot.FlowTally.Distribution, snapshot.FlowTally.Neutral,
		openState)

	return nil
}

func normalizeSymbol(sym string) string {
	s := strings.ToUpper(strings.TrimSpace(sym))
	if s != "" && !strings.Contains(s, ".") {
		s += ".JK"
	}
	return s
}
