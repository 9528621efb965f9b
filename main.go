package main

import (
	"log"

	api "mailboard-backend/cmd/api"
	authdomain "mailboard-backend/internal/auth/domain"
	authRepo "mailboard-backend/internal/auth/repository"
	authUsecase "mailboard-backend/internal/auth/usecase"
	kanbandomain "mailboard-backend/internal/kanban/domain"
	kanbanRepo "mailboard-backend/internal/kanban/repository"
	kanbanUsecase "mailboard-backend/internal/kanban/usecase"
	"mailboard-backend/pkg/ai"
	"mailboard-backend/pkg/config"
	"mailboard-backend/pkg/database"
	"mailboard-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	err = db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&kanbandomain.ColumnConfig{},
		&kanbandomain.EmailOrderEntry{},
		&kanbandomain.EmailPriority{},
		&kanbandomain.EmailSnooze{},
		&kanbandomain.EmailSummary{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	columnRepo := kanbanRepo.NewColumnRepository(db)
	orderRepo := kanbanRepo.NewEmailOrderRepository(db)
	priorityRepo := kanbanRepo.NewPriorityRepository(db)
	snoozeRepo := kanbanRepo.NewSnoozeRepository(db)
	summaryRepo := kanbanRepo.NewSummaryRepository(db)

	// Initialize Gmail provider
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize AI summarizer
	summarizer, err := ai.NewSummarizerService(ai.Config{
		Provider:     ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		log.Printf("Warning: AI summarizer unavailable: %v", err)
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, cfg)
	columnUc := kanbanUsecase.NewColumnUsecase(columnRepo, orderRepo, gmailService, userRepo)
	boardUc := kanbanUsecase.NewBoardUsecase(columnRepo, orderRepo, priorityRepo, snoozeRepo, summaryRepo, gmailService, userRepo, cfg.KanbanPageSize)
	pinUc := kanbanUsecase.NewPinUsecase(priorityRepo)
	snoozeUc := kanbanUsecase.NewSnoozeUsecase(snoozeRepo, cfg.SnoozeSweepInterval)
	summaryUc := kanbanUsecase.NewSummaryUsecase(summaryRepo, gmailService, summarizer, userRepo, cfg.SummaryBatchLimit)

	// Start the snooze restore sweeper
	snoozeUc.Start()
	defer snoozeUc.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, columnUc, boardUc, pinUc, snoozeUc, summaryUc, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
