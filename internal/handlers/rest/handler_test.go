package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollService "github.com/KirkDiggler/sealedroll/internal/services/roll"
	"github.com/KirkDiggler/sealedroll/internal/services/roll/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sealedView() *models.RollView {
	return &models.RollView{
		ID:              "V1StGXR8_Z",
		NumDice:         2,
		NumSides:        6,
		Label:           "",
		ResultsHash:     strings.Repeat("ab", 32),
		CreatedAt:       "2025-04-19T12:00:00.000Z",
		IsRevealed:      false,
		ShowSum:         true,
		WithReplacement: true,
		ExpiresAt:       "2025-05-03T12:00:00.000Z",
	}
}

func revealedView() *models.RollView {
	total := 7
	view := sealedView()
	view.IsRevealed = true
	view.Results = []int{3, 4}
	view.Total = &total
	view.RevealedAt = "2025-04-19T13:00:00.000Z"
	view.ExpiresAt = "2025-04-26T13:00:00.000Z"
	return view
}

func setupRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	h, err := New(&Config{RollService: svc})
	require.NoError(t, err)

	return svc, NewRouter(h, nil, false)
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{})
	assert.Error(t, err)
}

func TestCreateRoll(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "defaults showSum and withReplacement to true",
			body: `{"numDice":2,"numSides":6}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().CreateRoll(gomock.Any(), &rollService.CreateRollInput{
					NumDice: 2, NumSides: 6, ShowSum: true, WithReplacement: true,
				}).Return(&rollService.CreateRollOutput{Roll: sealedView()}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody: `{"id":"V1StGXR8_Z","numDice":2,"numSides":6,"label":"",` +
				`"resultsHash":"` + strings.Repeat("ab", 32) + `",` +
				`"createdAt":"2025-04-19T12:00:00.000Z","isRevealed":false,` +
				`"showSum":true,"withReplacement":true,"expiresAt":"2025-05-03T12:00:00.000Z"}`,
		},
		{
			name: "passes explicit options",
			body: `{"numDice":6,"numSides":6,"label":"seating","showSum":false,"withReplacement":false}`,
			setup: func(svc *mocks.MockService) {
				view := sealedView()
				view.NumDice = 6
				view.Label = "seating"
				view.ShowSum = false
				view.WithReplacement = false
				svc.EXPECT().CreateRoll(gomock.Any(), &rollService.CreateRollInput{
					NumDice: 6, NumSides: 6, Label: "seating", ShowSum: false, WithReplacement: false,
				}).Return(&rollService.CreateRollOutput{Roll: view}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "pool exhausted",
			body: `{"numDice":7,"numSides":6,"withReplacement":false}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().CreateRoll(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", rollService.ErrInvalidConfiguration, dice.ErrPoolExhausted))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Cannot roll without replacement when number of dice exceeds die sides"}`,
		},
		{
			name: "invalid die type",
			body: `{"numDice":1,"numSides":7}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().CreateRoll(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", rollService.ErrInvalidConfiguration, dice.ErrDieType))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid die type"}`,
		},
		{
			name:       "malformed body",
			body:       `{"numDice":"two"}`,
			setup:      func(svc *mocks.MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid request body"}`,
		},
		{
			name: "label too long",
			body: `{"numDice":1,"numSides":20,"label":"` + strings.Repeat("x", 101) + `"}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().CreateRoll(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", rollService.ErrInvalidConfiguration, rollService.ErrLabelTooLong))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Label must be at most 100 characters"}`,
		},
		{
			name:       "oversized body",
			body:       `{"numDice":1,"numSides":20,"label":"` + strings.Repeat("x", maxRequestBytes) + `"}`,
			setup:      func(svc *mocks.MockService) {},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   `{"error":"Request body too large"}`,
		},
		{
			name: "store unavailable",
			body: `{"numDice":1,"numSides":20}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().CreateRoll(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: %w", rollService.ErrStoreUnavailable, errors.New("dial tcp: refused")))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to create roll"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setupRouter(t)
			tt.setup(svc)

			rec := serve(router, http.MethodPost, "/rolls", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestGetRoll(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		view       *models.RollView
		wantStatus int
		contains   []string
		missing    []string
	}{
		{
			name:       "sealed",
			view:       sealedView(),
			wantStatus: http.StatusOK,
			contains:   []string{`"isRevealed":false`, `"resultsHash"`},
			missing:    []string{`"results"`, `"total"`, `"revealedAt"`, `"salt"`},
		},
		{
			name:       "revealed",
			view:       revealedView(),
			wantStatus: http.StatusOK,
			contains:   []string{`"results":[3,4]`, `"total":7`, `"revealedAt":"2025-04-19T13:00:00.000Z"`},
			missing:    []string{`"salt"`},
		},
		{
			name:       "not found",
			err:        rollService.ErrRollNotFound,
			wantStatus: http.StatusNotFound,
			contains:   []string{`{"error":"Roll not found"}`},
		},
		{
			name:       "store unavailable",
			err:        fmt.Errorf("%w: timeout", rollService.ErrStoreUnavailable),
			wantStatus: http.StatusInternalServerError,
			contains:   []string{`"error"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setupRouter(t)

			var output *rollService.GetRollOutput
			if tt.view != nil {
				output = &rollService.GetRollOutput{Roll: tt.view}
			}
			svc.EXPECT().GetRoll(gomock.Any(), &rollService.GetRollInput{RollID: "V1StGXR8_Z"}).Return(output, tt.err)

			rec := serve(router, http.MethodGet, "/rolls/V1StGXR8_Z", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestRevealRoll(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "revealed",
			wantStatus: http.StatusOK,
		},
		{
			name:       "already revealed",
			err:        rollService.ErrAlreadyRevealed,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Roll already revealed"}`,
		},
		{
			name:       "not found",
			err:        rollService.ErrRollNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Roll not found"}`,
		},
		{
			name:       "store unavailable",
			err:        fmt.Errorf("%w: timeout", rollService.ErrStoreUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to reveal roll"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setupRouter(t)

			var output *rollService.RevealRollOutput
			if tt.err == nil {
				output = &rollService.RevealRollOutput{Roll: revealedView()}
			}
			svc.EXPECT().RevealRoll(gomock.Any(), &rollService.RevealRollInput{RollID: "V1StGXR8_Z"}).Return(output, tt.err)

			rec := serve(router, http.MethodPost, "/rolls/V1StGXR8_Z", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"isRevealed":true`)
			}
		})
	}
}

func TestRoutes_MountedUnderAPI(t *testing.T) {
	svc, router := setupRouter(t)

	svc.EXPECT().GetRoll(gomock.Any(), &rollService.GetRollInput{RollID: "abc"}).
		Return(nil, rollService.ErrRollNotFound)
	svc.EXPECT().RevealRoll(gomock.Any(), &rollService.RevealRollInput{RollID: "abc"}).
		Return(nil, rollService.ErrRollNotFound)
	svc.EXPECT().CreateRoll(gomock.Any(), gomock.Any()).
		Return(&rollService.CreateRollOutput{Roll: sealedView()}, nil)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/rolls/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/rolls/abc", "").Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/rolls", `{"numDice":2,"numSides":6}`).Code)
}

func TestHealth(t *testing.T) {
	_, router := setupRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestContextPropagation(t *testing.T) {
	svc, router := setupRouter(t)

	type key struct{}
	svc.EXPECT().GetRoll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ *rollService.GetRollInput) (*rollService.GetRollOutput, error) {
			assert.Equal(t, "marker", ctx.Value(key{}))
			return &rollService.GetRollOutput{Roll: sealedView()}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/rolls/V1StGXR8_Z", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "marker"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
