// Command trainer rehearses an opening from the catalog end to end: it
// walks every variation, drives each session with the trainer's own
// hints, and persists completion records the way a host application
// would.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/config"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/engine"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/obslog"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/opening"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/store"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/training"
	"github.com/swoosh1337/chessmax-mobile-sub001/internal/variation"
)

func main() {
	_ = godotenv.Load()
	if err := obslog.InitFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "init logging:", err)
		os.Exit(1)
	}
	defer obslog.Sync()
	log := obslog.L()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	openingID := flag.String("opening", cfg.DefaultOpening, "opening id to rehearse")
	modeFlag := flag.String("mode", cfg.DefaultMode, "training mode: learn or drill")
	orderFlag := flag.String("order", cfg.DefaultOrder, "progression order: series or random")
	list := flag.Bool("list", false, "list known openings and exit")
	flag.Parse()

	catalog, err := opening.New(cfg.OpeningDir)
	if err != nil {
		log.Fatal("load openings", zap.Error(err))
	}
	if *list {
		for _, o := range catalog.All() {
			fmt.Printf("%-20s %-26s %s, %d variations\n", o.ID, o.Name, o.Side, len(o.Variations))
		}
		return
	}
	o, ok := catalog.ByID(*openingID)
	if !ok {
		log.Fatal("unknown opening", zap.String("id", *openingID), zap.Strings("known", catalog.IDs()))
	}

	ctx := context.Background()
	st := newStore(ctx, cfg, log)
	completed, err := st.CompletedVariationIDs(ctx, cfg.UserID)
	if err != nil {
		log.Fatal("load completed ids", zap.Error(err))
	}

	mgr, err := variation.NewManager(o, training.ModeID(*modeFlag), variation.Order(*orderFlag), completed)
	if err != nil {
		log.Fatal("build variation manager", zap.Error(err))
	}

	log.Info("starting rehearsal",
		zap.String("opening", o.ID),
		zap.String("mode", *modeFlag),
		zap.String("order", *orderFlag),
		zap.Int("already_completed", len(completed)))

	for i := 0; i < mgr.Count(); i++ {
		runVariation(ctx, mgr, st, cfg, log)
		mgr.HandleNextVariation()
	}
	for mode, statuses := range map[string][]variation.Status{
		"learn": mgr.Statuses(training.ModeLearn),
		"drill": mgr.Statuses(training.ModeDrill),
	} {
		for idx, s := range statuses {
			fmt.Printf("%s %-30s %s\n", mode, mgr.UniqueVariationID(idx), s)
		}
	}
}

// runVariation plays the active variation to completion by requesting a
// hint for every player move and dropping the hinted piece.
func runVariation(ctx context.Context, mgr *variation.Manager, st store.CompletionStore, cfg *config.AppConfig, log *zap.Logger) {
	v := mgr.Current()
	color := engine.White
	if mgr.Opening().Side == "black" {
		color = engine.Black
	}

	type outcome struct {
		errors int
		hints  int
	}
	done := make(chan outcome, 1)
	start := time.Now()

	sess, err := training.StartVariation(v.PGN, color, mgr.Mode(),
		training.WithOpponentReplyDelay(time.Duration(cfg.OpponentReplyDelayMS)*time.Millisecond),
		training.WithHintExpiry(time.Duration(cfg.HintExpirySec)*time.Second),
		training.WithCallbacks(training.Callbacks{
			OnComplete: func(errs, hints int) { done <- outcome{errs, hints} },
		}))
	if err != nil {
		log.Fatal("start variation", zap.Error(err))
	}
	defer sess.Dispose()

	deadline := time.After(2 * time.Minute)
	var out outcome
drive:
	for {
		select {
		case out = <-done:
			break drive
		case <-deadline:
			log.Error("variation did not complete", zap.String("name", v.Name))
			return
		default:
		}
		if h, ok := sess.Hint(); ok {
			sess.OnDropMove(h.From, h.To)
			continue
		}
		sess.HandleHint()
		if _, ok := sess.Hint(); !ok {
			// opponent reply pending
			time.Sleep(5 * time.Millisecond)
		}
	}

	success := mgr.Mode() == training.ModeLearn || out.errors == 0
	id := mgr.UniqueVariationID(mgr.CurrentIndex())
	rec := domain.CompletionRecord{
		UserID:      cfg.UserID,
		VariationID: id,
		Mode:        string(mgr.Mode()),
		Errors:      out.errors,
		HintsUsed:   out.hints,
		TimeSeconds: int(time.Since(start).Seconds()),
		XPEarned:    domain.XPEarned(string(mgr.Mode()), out.errors),
		CompletedAt: time.Now(),
	}
	if err := st.SaveCompletion(ctx, rec); err != nil {
		log.Error("save completion", zap.String("id", id), zap.Error(err))
	}
	mgr.MarkVariationComplete(success)
	log.Info("variation done",
		zap.String("id", id),
		zap.Int("errors", out.errors),
		zap.Int("hints", out.hints),
		zap.Int("xp", rec.XPEarned))
}

// newStore picks the persistence backend: Postgres when DATABASE_URL is
// set, else redis when REDIS_URL is set, else in-memory.
func newStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) store.CompletionStore {
	if cfg.DatabaseURL != "" {
		repo, err := store.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
		log.Info("using postgres store")
		return repo
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("parse REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("connect redis", zap.Error(err))
		}
		log.Info("using redis store")
		return store.NewRedisStore(rdb)
	}
	log.Info("using in-memory store")
	return store.NewMemoryStore()
}
