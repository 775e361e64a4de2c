package health

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"code-reconciler/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandler(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objects("exports/a.xlsx"))

	feature := NewFeature(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema)
	assert.Equal(t, "health", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	tests := []struct {
		path string
		want int
	}{
		{"/health", fiber.StatusOK},
		{"/health/storage", fiber.StatusOK},
		{"/health/database", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	t.Run("Report", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)

		var r Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
		assert.Equal(t, StatusOK, r.Status)
	})
}

func TestHandler_StorageFixFails(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(errors.New("access denied"))

	app := fiber.New()
	NewHandler(NewService(mockClient, testStorage, "exports/", zap.NewNop(), nil, testSchema)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/storage?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
