package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"car-support-be/internal/entity"
	"car-support-be/internal/repository/specification"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.KnowledgeEmbeddingRepository())
	assert.NotNil(t, uow.VehicleListingRepository())
	assert.NotNil(t, uow.ChatLogRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Knowledge Embedding Repository", func(t *testing.T) {
		count, err := uow.KnowledgeEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("KnowledgeEmbedding count: %d", count)
	})

	t.Run("Check Vehicle Listing Keyword Search", func(t *testing.T) {
		ctx := context.Background()

		listing := &entity.VehicleListing{
			Id:          uuid.New(),
			Brand:       "IntegrationBrand",
			Model:       "TestModel",
			Year:        2020,
			PriceWan:    50,
			MileageKm:   30000,
			Seats:       5,
			Color:       "白色",
			Description: "integration test listing",
			Available:   true,
			CreatedAt:   time.Now(),
		}
		err := uow.VehicleListingRepository().Create(ctx, listing)
		assert.NoError(t, err)

		matches, err := uow.VehicleListingRepository().SearchKeywords(ctx, []string{"IntegrationBrand"}, 5)
		assert.NoError(t, err)
		assert.NotEmpty(t, matches)
	})

	t.Run("Check Numeric Field Keyword Search", func(t *testing.T) {
		ctx := context.Background()

		// Seats, year and price deliberately absent from the description:
		// the rendered numeric columns alone must carry the match.
		listing := &entity.VehicleListing{
			Id:          uuid.New(),
			Brand:       "IntegrationVan",
			Model:       "SpaceWagon",
			Year:        2021,
			PriceWan:    85,
			MileageKm:   40000,
			Seats:       7,
			Color:       "銀色",
			Description: "integration numeric search listing",
			Available:   true,
			CreatedAt:   time.Now(),
		}
		err := uow.VehicleListingRepository().Create(ctx, listing)
		assert.NoError(t, err)

		for _, keyword := range []string{"7人座", "2021年", "85萬"} {
			matches, err := uow.VehicleListingRepository().SearchKeywords(ctx, []string{keyword}, 5)
			assert.NoError(t, err)

			found := false
			for _, m := range matches {
				if m.Id == listing.Id {
					found = true
				}
			}
			assert.True(t, found, "keyword %s did not match the listing", keyword)
		}
	})

	t.Run("Check Transactional Chat Log Write", func(t *testing.T) {
		ctx := context.Background()
		userKey := "U-integration-" + uuid.New().String()[:8]

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		for _, turn := range []struct{ role, content string }{
			{"user", "請問有五人座的車嗎"},
			{"assistant", "有的，目前有多台五人座車款"},
		} {
			logRow := entity.ChatLog{
				Id:        uuid.New(),
				UserKey:   userKey,
				Role:      turn.role,
				Content:   turn.content,
				Metadata:  map[string]interface{}{"path": "vector"},
				CreatedAt: time.Now(),
			}
			err = uow.ChatLogRepository().Create(ctx, &logRow)
			assert.NoError(t, err)
		}

		err = uow.Commit()
		assert.NoError(t, err)

		logs, err := uow.ChatLogRepository().FindAll(ctx, specification.ByUserKey{UserKey: userKey})
		assert.NoError(t, err)
		assert.Len(t, logs, 2)
	})
}
