package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/oikia/backend-go/internal/database/models"
	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/queue"
)

// IntentService defines the interface for intent capture
type IntentService interface {
	Create(ctx context.Context, rawInput string) (*models.Intent, error)
	Get(id uuid.UUID) (*models.Intent, error)
}

type intentService struct {
	intentRepo repository.IntentRepository
	publisher  *queue.Publisher
	logger     *slog.Logger
}

// NewIntentService creates a new intent service instance
func NewIntentService(intentRepo repository.IntentRepository, publisher *queue.Publisher, logger *slog.Logger) IntentService {
	return &intentService{
		intentRepo: intentRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create stores the intent and announces it on the queue. A publish failure
// leaves the row unprocessed for a later run rather than failing the request.
func (s *intentService) Create(ctx context.Context, rawInput string) (*models.Intent, error) {
	intent := &models.Intent{RawInput: rawInput}
	if err := s.intentRepo.Create(intent); err != nil {
		s.logger.Error("❌ [IntentService] Failed to store intent", "error", err)
		return nil, err
	}

	if s.publisher != nil {
		event := queue.IntentCreatedEvent{
			ID:        intent.ID.String(),
			RawInput:  intent.RawInput,
			CreatedAt: intent.CreatedAt,
		}
		if err := s.publisher.PublishIntentCreated(ctx, event); err != nil {
			s.logger.Warn("⚠️ [IntentService] Intent stored but event not published", "intent_id", intent.ID)
		}
	}

	s.logger.Info("✅ [IntentService] Intent captured", "intent_id", intent.ID)
	return intent, nil
}

func (s *intentService) Get(id uuid.UUID) (*models.Intent, error) {
	return s.intentRepo.FindByID(id)
}
