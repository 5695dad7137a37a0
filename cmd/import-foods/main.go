// Command import-foods maintains the food catalog: it seeds the starter foods
// and copies items from USDA FoodData Central by FDC id or by name.
//
//	import-foods -seed
//	import-foods -fdc 173904,171705
//	import-foods -name "greek yogurt" -name oats
//	import-foods -search "brown rice"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/macrolens/diary/config"
	"github.com/macrolens/diary/internal/domain"
	"github.com/macrolens/diary/internal/infrastructure/persistence"
	"github.com/macrolens/diary/internal/infrastructure/usda"
	applog "github.com/macrolens/diary/internal/log"
	"github.com/macrolens/diary/internal/usecase"
)

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	var (
		seed   = flag.Bool("seed", false, "insert the starter catalog")
		fdcIDs = flag.String("fdc", "", "comma-separated FDC ids to import")
		search = flag.String("search", "", "list FoodData Central candidates for a query")
		names  multiFlag
	)
	flag.Var(&names, "name", "import the best FoodData Central match for a name (repeatable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *seed, *fdcIDs, *search, names); err != nil {
		fmt.Fprintln(os.Stderr, "import-foods:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, seed bool, fdcIDs, search string, names []string) error {
	ids, err := parseIDs(fdcIDs)
	if err != nil {
		return err
	}
	if !seed && len(ids) == 0 && len(names) == 0 && search == "" {
		flag.Usage()
		return errors.New("nothing to do")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	db, err := persistence.Open(persistence.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer persistence.Close(db)
	if err := persistence.AutoMigrate(db); err != nil {
		return err
	}

	foods := persistence.NewFoodRepository(db)
	catalog := usecase.NewCatalogService(
		foods,
		persistence.NewCustomDishRepository(db),
		persistence.NewRecipeRepository(db),
		usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL,
			usda.WithRequestsPerHour(cfg.RateLimit.USDA),
			usda.WithHTTPClient(&http.Client{Timeout: cfg.USDA.Timeout})),
		nil,
		usecase.CatalogServiceConfig{
			MinMatchConfidence: cfg.Matching.MinConfidence,
			FuzzyMatching:      cfg.Matching.Fuzzy,
		},
	)

	if seed {
		created, err := persistence.SeedFoods(ctx, foods)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d foods\n", created)
	}

	if search != "" {
		results, err := catalog.SearchUSDA(ctx, search)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FDC ID\tTYPE\tDESCRIPTION")
		for _, f := range results.Foods {
			fmt.Fprintf(w, "%d\t%s\t%s\n", f.FdcID, f.DataType, f.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	var failed int
	for _, id := range ids {
		food, err := catalog.ImportFood(ctx, id)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "fdc %d: %v\n", id, err)
			continue
		}
		printFood(food)
	}

	for _, name := range names {
		food, match, err := catalog.ImportByName(ctx, name)
		if err != nil {
			failed++
			if errors.Is(err, domain.ErrLowConfidence) && match != nil {
				fmt.Fprintf(os.Stderr, "%q: best candidate %q (fdc %d) scored %.1f\n", name, match.Description, match.FdcID, match.Score)
			} else {
				fmt.Fprintf(os.Stderr, "%q: %v\n", name, err)
			}
			continue
		}
		printFood(food)
	}

	if failed > 0 {
		return fmt.Errorf("%d imports failed", failed)
	}
	return nil
}

func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid FDC id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printFood(f *domain.FoodItem) {
	fmt.Printf("%s  %-40s  %s kcal  P %s  C %s  F %s  (fdc %s)\n",
		f.ID, f.Name,
		f.Per100.Calories.StringFixed(2), f.Per100.Protein.StringFixed(2),
		f.Per100.Carbohydrates.StringFixed(2), f.Per100.Fat.StringFixed(2),
		f.ExternalRef)
}
