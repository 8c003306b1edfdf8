package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

// MockAddressService is a mock implementation of the AddressService interface
type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) Geocode(ctx context.Context, address string) (models.ApproximateLocation, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(models.ApproximateLocation), args.Error(1)
}

func TestAddressHandler_Geocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockLocation   models.ApproximateLocation
		mockError      error
		expectedStatus int
	}{
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "resolved address",
			query: "7 Carno Bettws NP20 7GU",
			mockLocation: models.ApproximateLocation{
				Resolved:  true,
				Postcode:  "NP207GU",
				Longitude: -3.0181,
				Latitude:  51.6077,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unresolved address",
			query:          "The Old Chapel",
			mockLocation:   models.ApproximateLocation{Resolved: false},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "service error",
			query:          "7 Carno Bettws NP20 7GU",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAddressService)
			handler := NewAddressHandler(mockSvc)

			if tt.query != "" {
				mockSvc.On("Geocode", mock.Anything, tt.query).Return(tt.mockLocation, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/geocode-address", nil)
			if tt.query != "" {
				q := req.URL.Query()
				q.Add("q", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Geocode(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var location models.ApproximateLocation
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &location))
				assert.Equal(t, tt.mockLocation, location)
			}

			if tt.query != "" {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}
