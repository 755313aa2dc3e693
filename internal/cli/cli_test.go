package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/blend/internal/config"
	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputs = `
inputs:
  - id: i1
    name: Sugar
  - id: i2
    name: Butter
`

func TestNewApp_FileDriver(t *testing.T) {
	dir := t.TempDir()
	registryPath := filepath.Join(dir, "inputs.yaml")
	require.NoError(t, os.WriteFile(registryPath, []byte(inputs), 0644))

	cfg := config.Default()
	cfg.Store.Driver = config.DriverFile
	cfg.Store.Path = filepath.Join(dir, "store")
	cfg.Registry.Path = registryPath

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	c, err := app.Combinations.Add(ctx)
	require.NoError(t, err)
	res, err := app.SetFormula(ctx, c.ID, "2*@butter")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	_, err = os.Stat(filepath.Join(dir, "store", c.ID+".json"))
	assert.NoError(t, err)
}

func TestNewApp_RedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Store.Driver = config.DriverRedis
	cfg.Store.Redis.Addr = mr.Addr()
	cfg.Registry.Path = ""

	app, err := NewApp(cfg, logging.NewNop())
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	c, err := app.Combinations.Add(ctx)
	require.NoError(t, err)
	_, err = app.Combinations.SetName(ctx, c.ID, "Dough")
	require.NoError(t, err)

	assert.True(t, mr.Exists("blend:combination:"+c.ID))
	list, err := app.Combinations.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dough", list[0].Name)
}

func TestNewApp_InvalidDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "sqlite"
	_, err := NewApp(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	_, err := CreateLogger(false, "loud")
	assert.Error(t, err)

	logger, err := CreateLogger(true, "loud")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	registry := []domain.Identifier{{ID: "i1", Name: "Sugar"}}
	text := "0.5*@Sugar + @Nope"
	require.NoError(t, p.Parse(text, formula.Parse(text, registry)))

	out := buf.String()
	assert.Contains(t, out, text+"\n")
	assert.Contains(t, out, "valid: true")
	assert.Contains(t, out, "unresolved: Nope")
	assert.Contains(t, out, "canonical: 0.5*@Sugar")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	require.NoError(t, p.Combinations(nil))
	assert.Equal(t, "No combinations found.\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Combination(&domain.Combination{ID: "c1", Name: "Dough"}))
	assert.Contains(t, buf.String(), "# Dough")

	buf.Reset()
	require.NoError(t, p.Exit(session.ExitResult{Outcome: "rejected", Unresolved: []string{"X"}}))
	assert.Equal(t, "rejected: \nunresolved: X\n", buf.String())
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)
	require.NoError(t, p.Identifiers([]domain.Identifier{{ID: "i1", Name: "Sugar"}}))
	assert.JSONEq(t, `[{"id":"i1","name":"Sugar"}]`, buf.String())
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", handler, logging.NewNop(), func(a net.Addr) { addrCh <- a })
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
