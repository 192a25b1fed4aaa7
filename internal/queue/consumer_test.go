package queue

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
	"github.com/oikia/backend-go/internal/database/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIntentRepo(t *testing.T) repository.IntentRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Intent{}))

	return repository.NewIntentRepository(db)
}

func TestIntentCreatedEvent_Codec(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := IntentCreatedEvent{
		ID:        "6f1e1d1c-0000-0000-0000-000000000001",
		RawInput:  "two bedroom flat near Lyon",
		CreatedAt: created,
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded IntentCreatedEvent
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestConsumer_HandleMessage(t *testing.T) {
	repo := newIntentRepo(t)
	consumer := NewConsumer("amqp://unused", repo, testLogger())

	intent := &models.Intent{RawInput: "studio in Paris"}
	require.NoError(t, repo.Create(intent))

	body, err := json.Marshal(IntentCreatedEvent{ID: intent.ID.String(), RawInput: intent.RawInput})
	require.NoError(t, err)

	require.NoError(t, consumer.handleMessage(body))

	found, err := repo.FindByID(intent.ID)
	require.NoError(t, err)
	assert.True(t, found.Processed)
}

func TestConsumer_HandleMessage_Rejections(t *testing.T) {
	repo := newIntentRepo(t)
	consumer := NewConsumer("amqp://unused", repo, testLogger())

	assert.Error(t, consumer.handleMessage([]byte("not json")), "malformed payload")

	body, err := json.Marshal(IntentCreatedEvent{ID: "not-a-uuid"})
	require.NoError(t, err)
	assert.Error(t, consumer.handleMessage(body), "unparseable id")

	body, err = json.Marshal(IntentCreatedEvent{ID: uuid.NewString()})
	require.NoError(t, err)
	assert.ErrorIs(t, consumer.handleMessage(body), repository.ErrIntentNotFound, "unknown intent")
}
