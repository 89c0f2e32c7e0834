package list_services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.ServiceListResponse)
	return resp, args.Error(1)
}

func TestHandler_Handle(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &serviceMock{}
		svc.On("ListActive", mock.Anything).Return(&models.ServiceListResponse{Services: []models.ServiceResponse{
			{ID: 1, Slug: "yoga", Name: "Yoga", SlotDurationMinutes: 10},
		}}, nil)

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.ServiceListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Services, 1)
		assert.Equal(t, "yoga", resp.Services[0].Slug)
	})

	t.Run("error", func(t *testing.T) {
		svc := &serviceMock{}
		svc.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
