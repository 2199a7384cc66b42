package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	"github.com/acadops/campus-admin-api/internal/service"
	"github.com/acadops/campus-admin-api/pkg/response"
)

type breakRepoMock struct {
	breaks []models.Break
}

func (m *breakRepoMock) List(ctx context.Context) ([]models.Break, error) {
	return m.breaks, nil
}

func (m *breakRepoMock) GetByID(ctx context.Context, id string) (*models.Break, error) {
	for _, b := range m.breaks {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *breakRepoMock) Create(ctx context.Context, b *models.Break) error {
	if b.ID == "" {
		b.ID = "b-new"
	}
	m.breaks = append(m.breaks, *b)
	return nil
}

func (m *breakRepoMock) Delete(ctx context.Context, id string) error {
	for i, b := range m.breaks {
		if b.ID == id {
			m.breaks = append(m.breaks[:i], m.breaks[i+1:]...)
			break
		}
	}
	return nil
}

func newBreakHandlerFixture(repo *breakRepoMock) *BreakHandler {
	svc := service.NewBreakService(repo, nil, nil, nil)
	return NewBreakHandler(svc)
}

func TestBreakHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &breakRepoMock{breaks: []models.Break{{
		ID:            "b1",
		Name:          "winter",
		StartDate:     time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 1,
	}}}
	handler := newBreakHandlerFixture(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/breaks", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []dto.BreakResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "2024-01-29", envelope.Data[0].StartDate)
}

func TestBreakHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &breakRepoMock{}
	handler := newBreakHandlerFixture(repo)

	payload, _ := json.Marshal(dto.CreateBreakRequest{
		Name:          "spring",
		StartDate:     "2024-04-01",
		DurationWeeks: 1,
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/breaks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.breaks, 1)
	assert.Equal(t, time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), repo.breaks[0].EndDate)
}

func TestBreakHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBreakHandlerFixture(&breakRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/breaks", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBreakHandlerDeleteUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBreakHandlerFixture(&breakRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/breaks/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}
