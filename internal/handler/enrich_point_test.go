package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/osgrid"
)

// MockEnrichService is a mock implementation of the EnrichService interface
type MockEnrichService struct {
	mock.Mock
}

func (m *MockEnrichService) EnrichPoint(ctx context.Context, lon, lat float64) (*models.PointEnrichment, error) {
	args := m.Called(ctx, lon, lat)
	result, _ := args.Get(0).(*models.PointEnrichment)
	return result, args.Error(1)
}

func TestEnrichHandler_EnrichPoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		lat, lon       string
		mockResult     *models.PointEnrichment
		mockError      error
		expectedStatus int
	}{
		{
			name:           "missing parameters",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid latitude format",
			lat:            "not-a-number",
			lon:            "-3.96894",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "successful enrichment",
			lat:  "52.99787",
			lon:  "-3.96894",
			mockResult: &models.PointEnrichment{
				Longitude: -3.96894,
				Latitude:  52.99787,
				Easting:   267957,
				Northing:  346319,
				GridRef:   "SH 67957 46319",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "coordinate outside grid",
			lat:            "40.0",
			lon:            "10.0",
			mockError:      fmt.Errorf("service: failed to encode grid reference: %w", osgrid.ErrOutOfBounds),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "service error",
			lat:            "52.99787",
			lon:            "-3.96894",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockEnrichService)
			handler := NewEnrichHandler(mockSvc)

			expectCall := tt.lat != "" && tt.lon != "" && tt.name != "invalid latitude format"
			if expectCall {
				mockSvc.On("EnrichPoint", mock.Anything, mock.Anything, mock.Anything).Return(tt.mockResult, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/enrich-point", nil)
			q := req.URL.Query()
			if tt.lat != "" {
				q.Add("lat", tt.lat)
			}
			if tt.lon != "" {
				q.Add("lon", tt.lon)
			}
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.EnrichPoint(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var result models.PointEnrichment
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				assert.Equal(t, *tt.mockResult, result)
			}

			if expectCall {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}
