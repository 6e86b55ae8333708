package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/analysis"
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/data"
	"lithuania-bess/internal/model"
	"lithuania-bess/internal/report"
	"lithuania-bess/internal/revenue"
	"lithuania-bess/internal/scenario"
)

func main() {
	setupLogging()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fetch":
		cmdFetch(os.Args[2:])
	case "revenue":
		cmdRevenue(os.Args[2:])
	case "scenarios":
		cmdScenarios(os.Args[2:])
	case "projects":
		cmdProjects(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  bess fetch --from 2024 --to 2025 [--config config.yaml]")
	fmt.Println("  bess revenue [--config config.yaml]")
	fmt.Println("  bess scenarios [--config config.yaml]")
	fmt.Println("  bess projects [--config config.yaml] [--export data/projects.json]")
	fmt.Println("  bess report [--config config.yaml] [--xlsx out/analysis.xlsx] [--html out/report.html]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - fetch needs ENTSOE_API_KEY (environment or ~/.env)")
	fmt.Println("  - revenue prints annual EUR/MW estimates per market and duration")
	fmt.Println("  - projects --export seeds a JSON list; point data.projects_path at it to maintain the pipeline outside the config")
	fmt.Println("  - report renders the Excel workbook and the self-contained HTML page")
}

func setupLogging() {
	// ~/.env is optional; real environment variables still win.
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".env"))
	}
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	return cfg
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	from := fs.Int("from", 2024, "First year to fetch")
	to := fs.Int("to", time.Now().UTC().Year(), "Last year to fetch")
	withSystem := fs.Bool("system", true, "Also fetch load, generation, and crossborder flows")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	client := data.NewEntsoeClient(os.Getenv("ENTSOE_API_KEY"), os.Getenv("ENTSOE_BASE_URL"))
	ctx := context.Background()
	dir := cfg.Data.Dir

	var da, load model.Series
	var imb model.ImbalanceSeries
	var afrr, mfrr model.ReserveSeries
	gen := map[string]model.Series{}
	flows := map[string]model.Series{}

	// Year-chunked pulls; a failed dataset is logged and skipped so one
	// bad feed doesn't lose the rest of the download.
	for y := *from; y <= *to; y++ {
		start := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		log.Info().Int("year", y).Msg("fetching")

		if s, err := client.DayAheadPrices(ctx, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("day-ahead fetch failed, skipping")
		} else {
			da = append(da, s...)
		}
		if s, err := client.ImbalancePrices(ctx, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("imbalance fetch failed, skipping")
		} else {
			imb = append(imb, s...)
		}
		if s, err := client.ReservePrices(ctx, data.ProcessAFRR, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("aFRR fetch failed, skipping")
		} else {
			afrr = append(afrr, s...)
		}
		if s, err := client.ReservePrices(ctx, data.ProcessMFRR, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("mFRR fetch failed, skipping")
		} else {
			mfrr = append(mfrr, s...)
		}

		if !*withSystem {
			continue
		}
		if s, err := client.ActualLoad(ctx, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("load fetch failed, skipping")
		} else {
			load = append(load, s...)
		}
		if byType, err := client.GenerationByType(ctx, start, end); err != nil {
			log.Warn().Err(err).Int("year", y).Msg("generation fetch failed, skipping")
		} else {
			for typ, s := range byType {
				gen[typ] = append(gen[typ], s...)
			}
		}
		for name, domain := range data.NeighborDomains {
			pairs := []struct{ from, to, fromD, toD string }{
				{name, "LT", domain, data.DomainLT},
				{"LT", name, data.DomainLT, domain},
			}
			for _, pair := range pairs {
				key := data.FlowFile(pair.from, pair.to)
				s, err := client.CrossborderFlow(ctx, pair.fromD, pair.toD, start, end)
				if err != nil {
					log.Warn().Err(err).Str("flow", key).Int("year", y).Msg("flow fetch failed, skipping")
					continue
				}
				flows[key] = append(flows[key], s...)
			}
		}
	}

	write := func(name string, err error) {
		if err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("write failed")
		}
		log.Info().Str("file", name).Msg("written")
	}
	write(data.DayAheadFile, data.WriteSeries(filepath.Join(dir, data.DayAheadFile), "price", da))
	write(data.ImbalanceFile, data.WriteImbalance(filepath.Join(dir, data.ImbalanceFile), imb))
	write(data.AFRRFile, data.WriteReserve(filepath.Join(dir, data.AFRRFile), afrr))
	write(data.MFRRFile, data.WriteReserve(filepath.Join(dir, data.MFRRFile), mfrr))
	if *withSystem {
		write(data.LoadFile, data.WriteSeries(filepath.Join(dir, data.LoadFile), "load_mw", load))
		write(data.GenFile, data.WriteTable(filepath.Join(dir, data.GenFile), gen))
		for name, s := range flows {
			write(name, data.WriteSeries(filepath.Join(dir, name), "flow_mw", s))
		}
	}
}

func cmdRevenue(args []string) {
	fs := flag.NewFlagSet("revenue", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	in := loadInputs(cfg)

	years := in.YearsWithData()
	if len(years) == 0 {
		log.Fatal().Msg("no market data found, run fetch first")
	}
	table := revenue.Estimate(in, years, cfg.Assumptions)

	for _, year := range years {
		fmt.Printf("\n%d annual revenue, EUR/MW:\n", year)
		fmt.Printf("%-24s", "Market")
		for _, dur := range cfg.Assumptions.Durations {
			fmt.Printf("%12dh", dur)
		}
		fmt.Println()
		for _, market := range revenue.Markets {
			fmt.Printf("%-24s", market)
			for _, dur := range cfg.Assumptions.Durations {
				fmt.Printf("%13.0f", table.Get(year, market, dur))
			}
			fmt.Println()
		}
	}
}

func cmdScenarios(args []string) {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	in := loadInputs(cfg)

	size := scenario.SizeMarket(in.AFRR, in.MFRR, cfg.Saturation)
	fmt.Printf("Balancing market size: %.0f MW (aFRR %.0f, mFRR %.0f, FCR est. %.0f)\n",
		size.BalancingMW, size.AFRRMW, size.MFRRMW, size.FCRMW)
	fmt.Printf("System peak load: %.0f MW, announced pipeline: %.0f MW / %.0f MWh\n\n",
		size.PeakLoadMW, size.PipelineMW, size.PipelineMWh)

	fmt.Printf("%-10s %6s %13s %17s %16s\n", "Scenario", "Year", "Installed MW", "Balancing ratio", "Peak load share")
	for _, pt := range scenario.Saturation(size, cfg.Saturation) {
		fmt.Printf("%-10s %6d %13.0f %17.2f %15.0f%%\n",
			pt.Scenario, pt.Year, pt.InstalledMW, pt.BalancingRatio, pt.PeakLoadShare*100)
	}
}

func cmdProjects(args []string) {
	fs := flag.NewFlagSet("projects", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	export := fs.String("export", "", "Write the project list as JSON to this path")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	list := &data.ProjectList{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Projects:  cfg.Projects,
	}

	fmt.Printf("%-24s %8s %9s %-16s %-22s %6s\n", "Developer", "MW", "MWh", "Location", "Status", "Year")
	for _, p := range list.Projects {
		fmt.Printf("%-24s %8.1f %9.1f %-16s %-22s %6d\n",
			p.Developer, p.PowerMW, p.EnergyMWh, p.Location, p.Status, p.Year)
	}
	fmt.Printf("\nTotal: %.1f MW / %.1f MWh across %d projects\n",
		list.TotalMW(), list.TotalMWh(), len(list.Projects))

	if *export != "" {
		if err := data.SaveProjects(list, *export); err != nil {
			log.Fatal().Err(err).Msg("export projects")
		}
		log.Info().Str("file", *export).Msg("written")
	}
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	xlsxPath := fs.String("xlsx", "", "Excel output path (default from config)")
	htmlPath := fs.String("html", "", "HTML output path (default from config)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	in := loadInputs(cfg)
	if len(in.YearsWithData()) == 0 {
		log.Fatal().Msg("no market data found, run fetch first")
	}

	var generation []analysis.GenerationShare
	if byType, err := data.ReadTable(filepath.Join(cfg.Data.Dir, data.GenFile)); err == nil {
		generation = analysis.GenerationShares(byType)
	}

	d := report.Assemble(cfg, in, generation)

	xlsx := *xlsxPath
	if xlsx == "" {
		xlsx = cfg.Data.XLSXPath
	}
	html := *htmlPath
	if html == "" {
		html = cfg.Data.HTMLPath
	}
	if err := report.WriteXLSX(d, xlsx); err != nil {
		log.Fatal().Err(err).Msg("write xlsx")
	}
	log.Info().Str("file", xlsx).Msg("written")
	if err := report.WriteHTML(d, html); err != nil {
		log.Fatal().Err(err).Msg("write html")
	}
	log.Info().Str("file", html).Msg("written")
}

// loadInputs reads the market CSVs, tolerating missing files.
func loadInputs(cfg *config.Config) revenue.Inputs {
	dir := cfg.Data.Dir
	var in revenue.Inputs
	if s, err := data.ReadSeries(filepath.Join(dir, data.DayAheadFile)); err == nil {
		in.DayAhead = s
	} else if !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("read day-ahead prices")
	}
	if s, err := data.ReadImbalance(filepath.Join(dir, data.ImbalanceFile)); err == nil {
		in.Imbalance = s
	} else if !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("read imbalance prices")
	}
	if s, err := data.ReadReserve(filepath.Join(dir, data.AFRRFile)); err == nil {
		in.AFRR = s
	} else if !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("read aFRR prices")
	}
	if s, err := data.ReadReserve(filepath.Join(dir, data.MFRRFile)); err == nil {
		in.MFRR = s
	} else if !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("read mFRR prices")
	}
	return in
}
