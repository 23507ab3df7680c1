package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"warpath/internal/combat"
	"warpath/internal/config"
	"warpath/internal/util"
)

type envOverrides struct {
	ConfigDir string `env:"WARPATH_CONFIG"`
	Out       string `env:"WARPATH_OUT"`
	LogLevel  string `env:"WARPATH_LOG"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	defaults := envOverrides{ConfigDir: "assets", Out: "out.json", LogLevel: "info"}
	if err := env.Parse(&defaults); err != nil {
		log.Fatal().Err(err).Msg("parse environment")
	}

	var (
		cfgDir   string
		scenario string
		out      string
		favor    string
		logLevel string
		runChain bool
		n        int
		workers  int
		seed     int64
	)
	flag.StringVar(&cfgDir, "config", defaults.ConfigDir, "config dir (rules.yaml + scenario.yaml)")
	flag.StringVar(&scenario, "scenario", "", "scenario file override (.yaml or .json)")
	flag.StringVar(&out, "out", defaults.Out, "output file (single) or summary file (sweep)")
	flag.StringVar(&favor, "favor", "", "team to maximize (default: scenario favor, then blue)")
	flag.StringVar(&logLevel, "log", defaults.LogLevel, "log level (debug|info|warn|error)")
	flag.BoolVar(&runChain, "chain", false, "also run the linear chain simulator")
	flag.IntVar(&n, "n", 1, "number of searches (>1 sweeps random scenarios)")
	flag.IntVar(&workers, "workers", 1, "parallel first-level branches per search")
	flag.Int64Var(&seed, "seed", 12345, "seed for the sweep")
	flag.Parse()

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parse log level")
	}
	zerolog.SetGlobalLevel(level)

	var (
		rulesCfg    *config.RulesConfig
		scenarioCfg *config.ScenarioConfig
	)
	if n <= 1 && scenario == "" {
		rulesCfg, scenarioCfg, err = config.LoadAll(cfgDir)
	} else {
		rulesCfg, err = config.LoadRules(filepath.Join(cfgDir, "rules.yaml"))
	}
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfgDir).Msg("load config")
	}

	rules, err := combat.NewRuleSet(rulesCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build rule set")
	}
	log.Info().Int("rules", rules.Len()).Msg("rule table loaded")

	if n > 1 {
		runSweep(rules, n, seed, out)
		return
	}

	if scenarioCfg == nil {
		scenarioCfg, err = config.LoadScenario(scenario)
		if err != nil {
			log.Fatal().Err(err).Str("path", scenario).Msg("load scenario")
		}
	}
	runSingle(rules, scenarioCfg, combat.Team(favor), out, workers, runChain)
}

func runSingle(rules *combat.RuleSet, sc *config.ScenarioConfig, favor combat.Team, out string, workers int, runChain bool) {
	groups, scenarioFavor, err := combat.GroupsFromConfig(sc)
	if err != nil {
		log.Fatal().Err(err).Msg("scenario groups")
	}
	if favor == "" {
		favor = scenarioFavor
	}

	pf, err := combat.NewPathFinder(rules, groups)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare search")
	}
	res, err := pf.Best(combat.Options{Favor: favor, Workers: workers})
	if err != nil {
		log.Fatal().Err(err).Msg("search")
	}
	log.Info().
		Str("scenario", sc.Name).
		Int("groups", len(groups)).
		Int("advantage", res.Advantage).
		Int("states", res.States).
		Int("cache_hits", res.CacheHits).
		Msg("search finished")

	var doc any = res
	if runChain {
		chain, err := combat.BestChain(rules, groups, favor)
		if err != nil {
			log.Fatal().Err(err).Msg("chain")
		}
		log.Info().
			Int("advantage", chain.Advantage).
			Ints("order", chain.Order).
			Bool("broken", chain.Broken).
			Msg("best chain")
		doc = map[string]any{"search": res, "chain": chain}
	}

	if err := os.WriteFile(out, combat.MarshalPretty(doc), 0644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("write result")
	}
	for _, s := range res.Steps {
		fmt.Println("  " + s.Describe())
	}
	fmt.Printf("Best advantage for %s: %d in %d steps -> %s\n", res.Favored, res.Advantage, len(res.Steps), out)
}

func runSweep(rules *combat.RuleSet, n int, seed int64, out string) {
	types := rules.Types()
	if len(types) == 0 {
		log.Fatal().Msg("rule table names no unit types to sweep with")
	}

	type stat struct {
		Runs      int
		SumAdv    float64
		MinAdv    int
		MaxAdv    int
		BlueWins  int
		RedWins   int
		Draws     int
		SumStates float64
		SumHits   float64
	}
	st := stat{MinAdv: math.MaxInt, MaxAdv: math.MinInt}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				rng := util.New(util.Derive(seed, workerID, i))
				groups := randomGroups(rng, types)
				res, err := combat.FindBestPath(rules, groups, combat.TeamBlue)
				if err != nil {
					log.Error().Err(err).Int("run", i).Msg("sweep search failed")
					continue
				}
				mu.Lock()
				st.Runs++
				st.SumAdv += float64(res.Advantage)
				if res.Advantage < st.MinAdv {
					st.MinAdv = res.Advantage
				}
				if res.Advantage > st.MaxAdv {
					st.MaxAdv = res.Advantage
				}
				switch {
				case res.Advantage > 0:
					st.BlueWins++
				case res.Advantage < 0:
					st.RedWins++
				default:
					st.Draws++
				}
				st.SumStates += float64(res.States)
				st.SumHits += float64(res.CacheHits)
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if st.Runs == 0 {
		log.Fatal().Msg("sweep produced no results")
	}
	summary := map[string]any{
		"runs":           st.Runs,
		"avg_advantage":  st.SumAdv / float64(st.Runs),
		"min_advantage":  st.MinAdv,
		"max_advantage":  st.MaxAdv,
		"blue_wins":      st.BlueWins,
		"red_wins":       st.RedWins,
		"draws":          st.Draws,
		"avg_states":     st.SumStates / float64(st.Runs),
		"avg_cache_hits": st.SumHits / float64(st.Runs),
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("write summary")
	}
	fmt.Printf("Sweep %d done -> %s\n", st.Runs, filepath.Base(out))
}

// randomGroups rolls a small roster over the table's type universe.
// Rosters stay small so each exhaustive search stays quick.
func randomGroups(rng *rand.Rand, types []combat.UnitType) []combat.Group {
	count := 3 + rng.Intn(3)
	groups := make([]combat.Group, 0, count)
	for i := 0; i < count; i++ {
		team := combat.TeamBlue
		if rng.Intn(2) == 1 {
			team = combat.TeamRed
		}
		groups = append(groups, combat.Group{
			Type:   types[rng.Intn(len(types))],
			Amount: 1 + rng.Intn(30),
			Team:   team,
		})
	}
	return groups
}
