package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/handler"
	"github.com/sanmiguel-edu/colegio-api/internal/service"
)

type stubReportCardService struct {
	card      dto.ReportCardResponse
	cardErr   error
	status    dto.StudentStatusResponse
	statusErr error
	lastGrade *uint
}

func (s *stubReportCardService) BuildReportCard(ctx context.Context, carnet string, upToTrimesterID *uint) (dto.ReportCardResponse, error) {
	return s.card, s.cardErr
}

func (s *stubReportCardService) StudentStatus(ctx context.Context, gradeLevelID *uint) (dto.StudentStatusResponse, error) {
	s.lastGrade = gradeLevelID
	return s.status, s.statusErr
}

func reportCardTestApp(svc service.ReportCardService) *fiber.App {
	h := handler.NewReportCardHandler(svc, zerolog.Nop())
	app := fiber.New()
	h.Register(app.Group("/api/v1/students"))
	return app
}

func TestReportCardHandlerAverageNotFound(t *testing.T) {
	app := reportCardTestApp(&stubReportCardService{cardErr: service.ErrStudentNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/9999-9999/average", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportCardHandlerAverageOK(t *testing.T) {
	app := reportCardTestApp(&stubReportCardService{card: dto.ReportCardResponse{Carnet: "2026-0001"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/2026-0001/average?trimestre_id=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReportCardHandlerStatusFiltersByGrade(t *testing.T) {
	svc := &stubReportCardService{}
	app := reportCardTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/status?grado=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastGrade)
	require.Equal(t, uint(2), *svc.lastGrade)
}

func TestReportCardHandlerStatusRejectsBadGrade(t *testing.T) {
	app := reportCardTestApp(&stubReportCardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/status?grado=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
