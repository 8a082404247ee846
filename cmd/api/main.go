package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"

	"github.com/trackmyexpense/backend/internal/api/handlers"
	"github.com/trackmyexpense/backend/internal/api/middleware"
	"github.com/trackmyexpense/backend/internal/cache"
	"github.com/trackmyexpense/backend/internal/config"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/logger"
	"github.com/trackmyexpense/backend/internal/receipts"
	"github.com/trackmyexpense/backend/internal/repository"
	"github.com/trackmyexpense/backend/internal/service"
	"github.com/trackmyexpense/backend/internal/store"
	dynamostore "github.com/trackmyexpense/backend/internal/store/dynamo"
	memorystore "github.com/trackmyexpense/backend/internal/store/memory"
)

const categoryCacheTTL = 5 * time.Minute

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Select the store backend
	var db store.Store
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("Using in-memory store - data is lost on restart")
		db = memorystore.New()
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS configuration")
		}
		db = dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	}

	// Category list cache is optional
	var categoryCache service.CategoryCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		categoryCache = cache.New[[]domain.Category](redisClient, categoryCacheTTL, log)
	} else {
		log.Warn().Msg("No Redis address configured - category caching disabled")
	}

	// Media signing is optional; without a bucket the receipt and profile
	// picture endpoints are not registered
	var signer *receipts.Signer
	if cfg.ReceiptsBucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer storageClient.Close()
		signer = receipts.NewSigner(storageClient, cfg.ReceiptsBucket)
	} else {
		log.Warn().Msg("No media bucket configured - receipt and profile picture uploads disabled")
	}

	// Repositories and services
	accountsRepo := repository.NewAccounts(db)
	transactionsRepo := repository.NewTransactions(db)
	categoriesRepo := repository.NewCategories(db)
	budgetsRepo := repository.NewBudgets(db)
	profilesRepo := repository.NewProfiles(db)

	accountService := service.NewAccountService(accountsRepo, log)
	transactionService := service.NewTransactionService(db, transactionsRepo, accountsRepo, log)
	categoryService := service.NewCategoryService(categoriesRepo, categoryCache, log)
	budgetService := service.NewBudgetService(budgetsRepo, log)

	accountsHandler := handlers.NewAccountsHandler(accountService, log)
	transactionsHandler := handlers.NewTransactionsHandler(transactionService, log)
	categoriesHandler := handlers.NewCategoriesHandler(categoryService, log)
	budgetsHandler := handlers.NewBudgetsHandler(budgetService, log)

	// Create router
	mux := http.NewServeMux()

	// Accounts endpoints
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountsHandler.List(w, r)
		case http.MethodPost:
			accountsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		accountID := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
		if accountID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Account ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			accountsHandler.Get(w, r, accountID)
		case http.MethodPut:
			accountsHandler.Update(w, r, accountID)
		case http.MethodDelete:
			accountsHandler.Delete(w, r, accountID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Transactions endpoints; items are addressed by their full sort key in
	// the "sk" query parameter, not by a path segment
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		case http.MethodPut:
			transactionsHandler.Update(w, r)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/detail", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.Get(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Categories endpoints
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.List(w, r)
		case http.MethodPost:
			categoriesHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		categoryID := strings.TrimPrefix(r.URL.Path, "/api/categories/")
		if categoryID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Category ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.Get(w, r, categoryID)
		case http.MethodPut:
			categoriesHandler.Update(w, r, categoryID)
		case http.MethodDelete:
			categoriesHandler.Delete(w, r, categoryID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Budgets endpoints
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetsHandler.List(w, r)
		case http.MethodPost:
			budgetsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/budgets/", func(w http.ResponseWriter, r *http.Request) {
		budgetID := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
		if budgetID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Budget ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			budgetsHandler.Get(w, r, budgetID)
		case http.MethodPut:
			budgetsHandler.Update(w, r, budgetID)
		case http.MethodDelete:
			budgetsHandler.Delete(w, r, budgetID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Media endpoints need the signer
	if signer != nil {
		profileService := service.NewProfileService(profilesRepo, signer, log)
		profileHandler := handlers.NewProfileHandler(profileService, log)
		receiptsHandler := handlers.NewReceiptsHandler(signer, log)

		mux.HandleFunc("/api/profile/picture/upload-url", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				profileHandler.CreateUploadURL(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})

		mux.HandleFunc("/api/profile/picture", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				profileHandler.Get(w, r)
			case http.MethodPost:
				profileHandler.Confirm(w, r)
			case http.MethodDelete:
				profileHandler.Delete(w, r)
			default:
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})

		mux.HandleFunc("/api/receipts/upload-url", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				receiptsHandler.CreateUploadURL(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})
	}

	// Health check stays outside authentication
	root := http.NewServeMux()
	root.Handle("/api/", middleware.Auth([]byte(cfg.JWTSecret))(mux))
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteSuccess(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
