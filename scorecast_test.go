package scorecast_test

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-scorecast"
	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/testsupport"
)

func newApp(t *testing.T, srv *testsupport.PredictionServer) *scorecast.App {
	t.Helper()
	client, err := predict.NewClient(srv.URL)
	require.NoError(t, err)
	app, err := scorecast.New(scorecast.WithClient(client))
	require.NoError(t, err)
	return app
}

func TestNew_RequiresPredictor(t *testing.T) {
	_, err := scorecast.New()
	require.ErrorIs(t, err, scorecast.ErrPredictorRequired)
}

func TestSession_SubmitAndRender(t *testing.T) {
	srv := testsupport.NewPredictionServer(t)
	app := newApp(t, srv)
	app.LoadInsights(context.Background())

	sess := app.NewSession()
	_, err := sess.Store.SetField("study_hours", "9")
	require.NoError(t, err)

	state, ok := sess.Submit(context.Background())
	require.True(t, ok)
	require.Equal(t, predict.PhaseSucceeded, state.Phase)
	require.Equal(t, 1, srv.PredictCalls())
	require.Contains(t, string(srv.Bodies()[0]), `"study_hours":9`)

	out, contentType, err := app.Render(context.Background(), sess, "html", scorecast.ViewOptions{Action: "/predict"})
	require.NoError(t, err)
	require.Equal(t, "text/html; charset=utf-8", contentType)
	page := string(out)
	require.Contains(t, page, "85.2")
	require.Contains(t, page, "92%")
	require.Contains(t, page, sess.CSRF)
	require.Contains(t, page, "study_hours")

	out, _, err = app.Render(context.Background(), sess, "terminal", scorecast.ViewOptions{Variant: "light"})
	require.NoError(t, err)
	require.Contains(t, string(out), "Predicted Exam Score")
}

func TestSession_Isolation(t *testing.T) {
	srv := testsupport.NewPredictionServer(t)
	app := newApp(t, srv)

	first := app.NewSession()
	second := app.NewSession()
	require.NotEqual(t, first.ID, second.ID)
	require.NotEqual(t, first.CSRF, second.CSRF)

	_, err := first.Store.SetField("age", "33")
	require.NoError(t, err)
	first.Submit(context.Background())

	age, _ := second.Store.Snapshot().Number("age")
	require.Equal(t, 20.0, age)
	require.Equal(t, predict.PhaseIdle, second.Controller.State().Phase)
}

func TestSession_Observers(t *testing.T) {
	srv := testsupport.NewPredictionServer(t)
	srv.SetPredict(testsupport.Reply{Status: http.StatusInternalServerError, Body: `{"detail":"model offline"}`})
	app := newApp(t, srv)

	var phases []predict.Phase
	sess := app.NewSession(func(s predict.State) { phases = append(phases, s.Phase) })
	state, _ := sess.Submit(context.Background())

	require.Equal(t, "model offline", state.Message)
	require.Equal(t, []predict.Phase{predict.PhasePending, predict.PhaseFailed}, phases)
}

func TestView_UnknownVariant(t *testing.T) {
	srv := testsupport.NewPredictionServer(t)
	app := newApp(t, srv)
	_, err := app.View(app.NewSession(), scorecast.ViewOptions{Variant: "sepia"})
	require.Error(t, err)
}

func TestCheckSchema(t *testing.T) {
	srv := testsupport.NewPredictionServer(t)
	app := newApp(t, srv)

	_, err := app.CheckSchema(context.Background())
	require.Error(t, err)

	srv.SetOpenAPI(testsupport.Reply{Status: http.StatusOK, Body: `{
		"openapi": "3.1.0",
		"info": {"title": "api", "version": "1"},
		"paths": {"/predict": {"post": {
			"requestBody": {"content": {"application/json": {"schema": {
				"type": "object",
				"properties": {"age": {"type": "integer", "minimum": 10, "maximum": 100}}
			}}}},
			"responses": {"200": {"description": "ok"}}
		}}}
	}`})
	drifts, err := app.CheckSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, drifts, 10)
	for _, drift := range drifts {
		require.NotEqual(t, "age", drift.Key)
	}

	bare, err := scorecast.New(scorecast.WithPredictor(predict.PredictorFunc(func(context.Context, any) (predict.Result, error) {
		return predict.Result{}, nil
	})))
	require.NoError(t, err)
	_, err = bare.CheckSchema(context.Background())
	require.True(t, errors.Is(err, scorecast.ErrNoDocumentSource))
}

func TestEmbeddedTemplates(t *testing.T) {
	data, err := fs.ReadFile(scorecast.EmbeddedTemplates(), "page.tpl")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "form"))
}
