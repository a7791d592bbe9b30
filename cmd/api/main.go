package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aayushsingh8/fake-news-prediction/db"
	"github.com/aayushsingh8/fake-news-prediction/internal/config"
	"github.com/aayushsingh8/fake-news-prediction/internal/handler"
	"github.com/aayushsingh8/fake-news-prediction/internal/middleware"
	"github.com/aayushsingh8/fake-news-prediction/internal/model"
	"github.com/aayushsingh8/fake-news-prediction/internal/repository"
	"github.com/aayushsingh8/fake-news-prediction/pkg/classifier"
	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/ensemble"
	"github.com/aayushsingh8/fake-news-prediction/pkg/extract"
	"github.com/aayushsingh8/fake-news-prediction/pkg/llm"
	"github.com/aayushsingh8/fake-news-prediction/pkg/news"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)})))

	ctx := context.Background()

	var usageStore handler.UsageStore
	var dbPinger handler.Pinger
	if cfg.DatabaseURL != "" {
		if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		repo := repository.NewUsageRepository(db.DB)
		usageStore = repo
		dbPinger = repo
	} else {
		slog.Info("DATABASE_URL not set, usage accounting disabled")
	}

	var counter middleware.Counter
	var cache handler.Cache
	var redisPinger handler.Pinger
	if cfg.RedisURL != "" {
		if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()

		redisCounter := db.NewRedisCounter(db.Redis)
		counter = redisCounter
		redisPinger = redisCounter
		cache = db.NewRedisCache(db.Redis)
	} else {
		slog.Info("REDIS_URL not set, rate limiting and caching disabled")
	}

	table := credibility.NewTable(cfg.Credibility)
	slog.Info("credibility table loaded", "sizes", table.Size())

	transformer := classifier.NewHuggingFaceClient(cfg.Transformer.Token, cfg.Transformer.ModelID, cfg.Transformer.BaseURL)
	documentModel := classifier.NewHuggingFaceClient(cfg.Transformer.Token, cfg.Transformer.DocumentModelID, cfg.Transformer.BaseURL)

	chat, err := llm.NewChatClient(cfg.Judge)
	if err != nil {
		log.Fatalf("error creating judge client: %v", err)
	}
	judge := llm.NewJudge(chat, table, cfg.JudgeTuning, cfg.Judge.APIKey != "")

	meteredTransformer := handler.MeterClassifier(transformer, usageStore, model.ApiTransformer)
	meteredDocument := handler.MeterClassifier(documentModel, usageStore, model.ApiDocument)
	meteredJudge := handler.MeterJudge(judge, usageStore, model.ApiJudge)

	predictor := ensemble.NewPredictor(meteredTransformer, meteredJudge, cfg.Ensemble)
	extractor := extract.NewArticleExtractor(cfg.Extractor)

	predictionHandler := handler.NewPredictionHandler(meteredTransformer, meteredDocument, predictor, extractor, table, cfg.Input)
	credibilityHandler := handler.NewCredibilityHandler(table)
	trendingHandler := handler.NewTrendingHandler(newsAggregator(cfg), table, cache, time.Duration(cfg.Trending.CacheSeconds)*time.Second, cfg.Trending.Limit)
	usageHandler := handler.NewUsageHandler(usageStore)
	healthHandler := handler.NewHealthHandler(transformer, judge, dbPinger, redisPinger)

	if !cfg.Configured() {
		slog.Warn("model credentials incomplete, prediction routes will return 500",
			"hf_token", cfg.Transformer.Token != "", "judge_api_key", cfg.Judge.APIKey != "")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}

	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:           allowedOrigins,
		AllowBrowserExtensions: true,
		AllowMethods:           []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:           []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:          []string{middleware.RequestIDHeader},
	}))

	api := r.Group("/api")
	limited := api.Group("", middleware.RateLimit(counter, cfg.Server.RateLimitPerMinute, time.Minute))

	limited.POST("/predict-text", predictionHandler.PredictText)
	limited.POST("/extract-url", predictionHandler.ExtractURL)
	limited.POST("/analyze-document", predictionHandler.AnalyzeDocument)
	limited.POST("/ensemble-predict", predictionHandler.EnsemblePredict)

	api.GET("/credibility", credibilityHandler.GetCredibility)
	api.GET("/trending", trendingHandler.GetTrending)
	api.GET("/usage", usageHandler.GetUsage)
	r.GET("/health", healthHandler.GetHealth)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down server", "error", err)
	}
}

func newsAggregator(cfg *config.Config) *news.Aggregator {
	var clients []news.NewsClient
	for _, feed := range cfg.Trending.Feeds {
		clients = append(clients, news.NewRSSClient(feed))
	}
	if cfg.FinnhubAPIKey != "" {
		clients = append(clients, news.NewFinnHubClient(cfg.FinnhubAPIKey, ""))
	}
	if cfg.AlphaVantageAPIKey != "" {
		clients = append(clients, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey))
	}

	return news.NewAggregator(time.Duration(cfg.Trending.TimeoutSeconds)*time.Second, clients...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
