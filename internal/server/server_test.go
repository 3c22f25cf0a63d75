package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/catalog"
	"github.com/spigell/lexnorm/internal/content"
	"github.com/spigell/lexnorm/internal/extractor"
	"github.com/spigell/lexnorm/internal/mapper"
	"github.com/spigell/lexnorm/internal/mapping"
	"github.com/spigell/lexnorm/internal/model"
	"github.com/spigell/lexnorm/internal/store"
	"github.com/spigell/lexnorm/internal/store/storetest"
	"github.com/spigell/lexnorm/internal/summarizer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubCompleter struct {
	summary string
	mapping string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Available Occupational Standards") {
		return s.mapping, nil
	}
	return s.summary, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db := storetest.New(t)
	l := zap.NewNop()
	completer := &stubCompleter{
		summary: "Arc welding summary",
		mapping: `{"mappings": [{"nos_code": "FAB/N1", "pc_code": "PC1", "confidence_score": 80, "reasoning": "fit"}], "overall_gap_analysis": "gaps"}`,
	}

	catalogRepo := store.NewCatalogRepo(db)
	contents := content.NewService(store.NewContentRepo(db), extractor.New(l), summarizer.New(completer, "", l), l)
	results := store.NewResultRepo(db)
	settings := store.NewSettingsRepo(db)

	return New(Deps{
		Contents: contents,
		Mapping:  mapping.NewService(contents, catalogRepo, settings, results, mapper.New(completer, catalogRepo, "", 200, l), l),
		Catalog:  catalogRepo,
		Loader:   catalog.NewLoader(catalogRepo, l),
		Settings: settings,
		Results:  results,
	}, l)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, s *Server, path string, fields map[string]string, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const catalogCSV = "Job Role,NOS Code,NOS Name,PC code,PC Description\n" +
	"Welder,FAB/N1,Arc welding,PC1,Prepare joints\n" +
	",,,PC2,Inspect welds\n" +
	",,,PC3,\n"

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestContentAndMappingFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doMultipart(t, s, "/api/v1/mapping/standards/import", map[string]string{"replace": "true"}, "catalog.csv", []byte(catalogCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[catalog.Report](t, rec)
	require.Equal(t, 3, report.Total)
	require.Equal(t, 2, report.Imported)
	require.Len(t, report.Errors, 1)

	rec = doMultipart(t, s, "/api/v1/content/upload", map[string]string{"title": "Welding"}, "welding.txt", []byte("  Arc welding course  "))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Content](t, rec)
	require.Equal(t, "Arc welding course", created.Text)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/mapping/map-content", gin.H{"content_id": created.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[model.MappingResponse](t, rec)
	require.Len(t, resp.MappedStandards, 1)
	require.Equal(t, "Prepare joints", resp.MappedStandards[0].Standard.PCDescription)
	require.Equal(t, "Arc welding summary", resp.SummaryUsed)
	require.NotNil(t, resp.RunID)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/mapping/results?content_id="+jsonNumber(created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, "80.0", list[0]["overall_confidence_score"])
	require.NotContains(t, list[0], "mapping_data")

	rec = doJSON(t, s, http.MethodGet, "/api/v1/mapping/results/"+jsonNumber(*resp.RunID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[map[string]any](t, rec)
	require.Contains(t, run, "mapping_data")

	rec = doJSON(t, s, http.MethodGet, "/api/v1/mapping/standards/job-roles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{"job_role":"Welder"}]`, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/v1/mapping/standards?search=inspect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]model.Standard](t, rec), 1)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/mapping/batch-map", gin.H{"content_ids": []uint{created.ID, 999}})
	require.Equal(t, http.StatusOK, rec.Code)
	batch := decode[mapping.BatchResult](t, rec)
	require.Equal(t, 1, batch.Successful)
	require.Equal(t, 1, batch.Failed)
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		rec    func() *httptest.ResponseRecorder
		status int
	}{
		{"missing content", func() *httptest.ResponseRecorder {
			return doJSON(t, s, http.MethodGet, "/api/v1/content/42", nil)
		}, http.StatusNotFound},
		{"bad id", func() *httptest.ResponseRecorder {
			return doJSON(t, s, http.MethodGet, "/api/v1/content/abc", nil)
		}, http.StatusBadRequest},
		{"invalid payload", func() *httptest.ResponseRecorder {
			return doJSON(t, s, http.MethodPost, "/api/v1/content", gin.H{"title": "no body"})
		}, http.StatusBadRequest},
		{"unsupported upload", func() *httptest.ResponseRecorder {
			return doMultipart(t, s, "/api/v1/content/upload", map[string]string{"title": "img"}, "photo.png", []byte{0xff, 0xd8, 0xff, 0xe0})
		}, http.StatusUnsupportedMediaType},
		{"empty upload", func() *httptest.ResponseRecorder {
			return doMultipart(t, s, "/api/v1/content/upload", map[string]string{"title": "blank"}, "blank.md", []byte("  \n"))
		}, http.StatusUnprocessableEntity},
		{"no standards", func() *httptest.ResponseRecorder {
			c := doJSON(t, s, http.MethodPost, "/api/v1/content", gin.H{"title": "t", "content": "body"})
			created := decode[model.Content](t, c)
			return doJSON(t, s, http.MethodPost, "/api/v1/mapping/map-content", gin.H{"content_id": created.ID})
		}, http.StatusNotFound},
		{"bad csv headers", func() *httptest.ResponseRecorder {
			return doMultipart(t, s, "/api/v1/mapping/standards/import", nil, "catalog.csv", []byte("a,b\n1,2\n"))
		}, http.StatusBadRequest},
		{"missing settings", func() *httptest.ResponseRecorder {
			return doJSON(t, s, http.MethodDelete, "/api/v1/settings/5", nil)
		}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.rec()
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			env := decode[errorEnvelope](t, rec)
			require.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestSettingsCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/settings", gin.H{"task_type": "content_mapping", "llm_prompt": "custom"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Settings](t, rec)
	require.Equal(t, model.DefaultCountry, created.Country)

	rec = doJSON(t, s, http.MethodPut, "/api/v1/settings/"+jsonNumber(created.ID), gin.H{"job_role_filter_hint": "welder"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "welder", decode[model.Settings](t, rec).JobRoleFilterHint)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/settings", gin.H{"task_type": "unknown"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/settings", nil)
	require.Len(t, decode[[]model.Settings](t, rec), 1)

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/settings/"+jsonNumber(created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsDefaults(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/settings/defaults/countries", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	countries := decode[[]model.Option](t, rec)
	require.Len(t, countries, 5)
	require.Equal(t, model.Option{Code: "IN", Name: "India"}, countries[0])

	rec = doJSON(t, s, http.MethodGet, "/api/v1/settings/defaults/standards", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	standards := decode[[]model.Option](t, rec)
	require.Len(t, standards, 4)
	require.Equal(t, "NOS", standards[0].Code)
	require.Equal(t, model.DefaultStandardName, standards[0].Name)

	// Numeric ids still reach the record routes.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/settings/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/content", gin.H{"title": "t", "content": "body"})
	created := decode[model.Content](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/content/"+jsonNumber(created.ID)+"/generate-summary", gin.H{"custom_prompt": "short"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.JSONEq(t, `{"content_id": `+jsonNumber(created.ID)+`, "summary": "Arc welding summary"}`, rec.Body.String())
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
