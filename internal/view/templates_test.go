package view

import (
	"html/template"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

type loadingPage struct {
	Loading bool
	PageID  string
}

func TestRenderEmitsRefreshWhenRequested(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.Render(rr, "pages/dashboard.html", TemplateData{
		Title:          "Wayne Enterprises",
		Subtitle:       "Business Intelligence Dashboard",
		RefreshURL:     "/pages/abc",
		RefreshSeconds: 2,
		Data:           loadingPage{Loading: true, PageID: "abc"},
	})
	require.NoError(t, err)

	body := rr.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, `http-equiv="refresh" content="2;url=/pages/abc"`)
	assert.Contains(t, body, "Loading Dashboard Data...")
	assert.Contains(t, body, "<h1>Wayne Enterprises</h1>")
}

func TestExecuteWithoutRefresh(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	var sb strings.Builder
	err = engine.Execute(&sb, "pages/dashboard.html", TemplateData{Title: "Wayne Enterprises", Data: loadingPage{Loading: true}})
	require.NoError(t, err)
	assert.NotContains(t, sb.String(), "http-equiv")
}

func TestParagraphs(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	tpl := template.Must(engine.templates.Clone())
	tpl = template.Must(tpl.New("story").Parse(`{{range paragraphs .}}[{{.}}]{{end}}`))
	var sb strings.Builder
	require.NoError(t, tpl.ExecuteTemplate(&sb, "story", "First part.\n\nSecond <b>part</b>.\r\n\r\n  "))
	assert.Equal(t, "[First part.][Second &lt;b&gt;part&lt;/b&gt;.]", sb.String())
}

func TestNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Render(httptest.NewRecorder(), "pages/dashboard.html", TemplateData{}))
}
