package blend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/blend"
	"github.com/aretw0/blend/pkg/adapters/memory"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestApp_SetFormulaKeepsTermsOnInvalidText(t *testing.T) {
	ctx := context.Background()
	app := blend.New(blend.WithRegistry(memory.NewRegistry(domain.Identifier{ID: "i1", Name: "Sugar"})))
	defer app.Close()

	c, err := app.Combinations.Add(ctx)
	require.NoError(t, err)

	res, err := app.SetFormula(ctx, c.ID, "3*@Sugar")
	require.NoError(t, err)
	require.True(t, res.Applied)

	res, err = app.SetFormula(ctx, c.ID, "garbage @Nope")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, []domain.Term{{InputID: "i1", InputName: "Sugar", Coefficient: 3}}, res.Terms)
}

func TestApp_ExitHooks(t *testing.T) {
	ctx := context.Background()
	var outcomes []string
	app := blend.New(blend.WithExitHook(func(res session.ExitResult, err error) {
		outcomes = append(outcomes, res.Outcome)
	}))
	defer app.Close()

	c, err := app.Combinations.Add(ctx)
	require.NoError(t, err)
	_, err = app.SetFormula(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"cleared"}, outcomes)
}

func TestApp_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := blend.New(blend.WithMetrics(reg))
	defer app.Close()

	for _, path := range []string{"/health", "/info", "/metrics", "/combinations"} {
		rr := httptest.NewRecorder()
		app.Handler().ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	app.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/info", nil))
	assert.Contains(t, rr.Body.String(), strings.TrimSpace(blend.Version))
}

func TestApp_Suggest(t *testing.T) {
	ctx := context.Background()
	app := blend.New(
		blend.WithRegistry(memory.NewRegistry(
			domain.Identifier{ID: "i1", Name: "Sugar"},
			domain.Identifier{ID: "i2", Name: "Butter"},
			domain.Identifier{ID: "i3", Name: "Salt"},
		)),
		blend.WithSuggestionLimit(1),
	)
	defer app.Close()

	got, err := app.Suggest(ctx, "s", 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Identifier{{ID: "i1", Name: "Sugar"}}, got)

	got, err = app.Suggest(ctx, "s", 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestApp_Close(t *testing.T) {
	boom := errors.New("boom")
	closed := 0
	app := blend.New(
		blend.WithCloser(closerFunc(func() error { closed++; return nil })),
		blend.WithCloser(closerFunc(func() error { closed++; return boom })),
	)
	err := app.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, closed)
}
