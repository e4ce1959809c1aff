package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository/sqlite"
	"poetrydesk/internal/service"
)

func newTestRouter(t *testing.T, uniqueness domain.PoemUniqueness) http.Handler {
	t.Helper()
	p := service.NewProvisioner(t.TempDir(), sqlite.DefaultOptions(), uniqueness, nil)
	store, err := p.Create(context.Background(), "handlers")
	require.NoError(t, err)
	return NewRouter(service.NewServices(store, service.NewEventBus(), nil), nil, nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const ivanJSON = `{"phone_number":"+12345678901","first_name":"Ivan","last_name":"Petrov","date_of_birth":"1990-01-01"}`
const olgaJSON = `{"phone_number":"+19876543210","first_name":"Olga","last_name":"Orlova","date_of_birth":"1985-05-05"}`

func TestPeopleEndpoints(t *testing.T) {
	h := newTestRouter(t, domain.UniquePerPoet)

	t.Run("create", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/poets", ivanJSON)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got PersonResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, PersonResponse{
			PhoneNumber: "+12345678901",
			FirstName:   "Ivan",
			LastName:    "Petrov",
			DateOfBirth: "1990-01-01",
			Role:        "poet",
		}, got)
	})

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/poets", ivanJSON)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("same phone is free in the other table", func(t *testing.T) {
		body := strings.Replace(ivanJSON, "Ivan", "Ivanna", 1)
		rec := do(t, h, http.MethodPost, "/api/critics", body)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/poets/+12345678901", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"last_name":"Petrov"`)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/poets/+10000000000", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update takes phone from path", func(t *testing.T) {
		body := `{"phone_number":"ignored","first_name":"Ivan","last_name":"Sidorov","date_of_birth":"1991-02-02"}`
		rec := do(t, h, http.MethodPut, "/api/poets/+12345678901", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, h, http.MethodGet, "/api/poets/+12345678901", "")
		assert.Contains(t, rec.Body.String(), `"last_name":"Sidorov"`)
		assert.Contains(t, rec.Body.String(), `"date_of_birth":"1991-02-02"`)
	})

	t.Run("update unknown", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/api/poets/+10000000000", ivanJSON)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list as json records", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/poets", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var rows []map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Sidorov", rows[0]["last_name"])
	})

	t.Run("list filtered as csv", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/poets?filter=nobody&format=csv", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "phone_number,first_name,last_name,date_of_birth\n", rec.Body.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/poets?format=xml", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := do(t, h, http.MethodDelete, "/api/poets/+12345678901", "")
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
		rec := do(t, h, http.MethodGet, "/api/poets/+12345678901", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("clear", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/critics", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/critics", "")
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestPeopleValidation(t *testing.T) {
	h := newTestRouter(t, domain.UniquePerPoet)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"short first name", `{"phone_number":"+12345678901","first_name":"Iv","last_name":"Petrov","date_of_birth":"1990-01-01"}`, "first_name"},
		{"digits in last name", `{"phone_number":"+12345678901","first_name":"Ivan","last_name":"Petr0v","date_of_birth":"1990-01-01"}`, "last_name"},
		{"bad phone", `{"phone_number":"12","first_name":"Ivan","last_name":"Petrov","date_of_birth":"1990-01-01"}`, "phone_number"},
		{"missing date", `{"phone_number":"+12345678901","first_name":"Ivan","last_name":"Petrov"}`, "date_of_birth"},
		{"unparseable date", `{"phone_number":"+12345678901","first_name":"Ivan","last_name":"Petrov","date_of_birth":"01/01/1990"}`, "date_of_birth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/poets", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Fields, tt.field)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/poets", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPoemEndpoints(t *testing.T) {
	h := newTestRouter(t, domain.UniquePerPair)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/poets", ivanJSON).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/critics", olgaJSON).Code)

	poem := `{"poet_phone_number":"+12345678901","critic_phone_number":"+19876543210","text":"Frost and sun"}`

	rec := do(t, h, http.MethodPost, "/api/poems", poem)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"uploaded"`)

	rec = do(t, h, http.MethodPost, "/api/poems", poem)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/poems", `{"poet_phone_number":"+12345678901","critic_phone_number":"+19876543210","text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/poems?format=json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Frost and sun", rows[0]["text_data"])

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/poems", "").Code)
	assert.JSONEq(t, `[]`, do(t, h, http.MethodGet, "/api/poems", "").Body.String())
}

func TestImportEndpoint(t *testing.T) {
	h := newTestRouter(t, domain.UniquePerPoet)

	body := `
poets:
  - phone: "+12345678901"
    first_name: Ivan
    last_name: Petrov
    date_of_birth: "1990-01-01"
critics:
  - phone: "+19876543210"
    first_name: Olga
    last_name: Orlova
    date_of_birth: "1985-05-05"
  - phone: "bad"
    first_name: Olga
    last_name: Orlova
    date_of_birth: "1985-05-05"
poems:
  - poet: "+12345678901"
    critic: "+19876543210"
    text: Winter morning
`
	rec := do(t, h, http.MethodPost, "/api/import", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Poets)
	assert.Equal(t, 1, result.Critics)
	assert.Equal(t, 1, result.Poems)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "critics", result.Failures[0].Section)

	t.Run("unknown keys are rejected", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/import", "authors: []\n")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouterMethodsAndEvents(t *testing.T) {
	h := newTestRouter(t, domain.UniquePerPoet)

	rec := do(t, h, http.MethodPatch, "/api/poets", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// No events handler was configured
	rec = do(t, h, http.MethodGet, "/api/events", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
