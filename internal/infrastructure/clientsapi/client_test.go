package clientsapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/infrastructure/clientsapi"
)

func TestListClients(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/clientes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7,"nome":"Empresa ABC, Lda","email":"geral@abc.pt","nif":"500123456","consentimento":"dado","criadoEm":"2023-01-15T10:30:00Z"}]`))
	}))
	defer srv.Close()

	client, err := clientsapi.New(srv.URL+"/api", srv.Client())
	require.NoError(t, err)

	clients, err := client.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, int64(7), clients[0].ID)
	assert.Equal(t, domain.ConsentGiven, clients[0].Consent)
	assert.Equal(t, 2023, clients[0].CreatedAt.Year())
}

func TestCreateClientSendsOptionalFieldsAsNull(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":42,"nome":"Novo","consentimento":"Pendente"}`))
	}))
	defer srv.Close()

	client, err := clientsapi.New(srv.URL+"/api/", nil)
	require.NoError(t, err)

	created, err := client.CreateClient(context.Background(), domain.Client{Name: "Novo", Email: "novo@x.pt", Consent: domain.ConsentPending})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	assert.Equal(t, "Novo", got["nome"])
	assert.Equal(t, "novo@x.pt", got["email"])
	assert.Nil(t, got["nif"])
	assert.Contains(t, got, "morada")
	assert.Equal(t, "Pendente", got["consentimento"])
}

func TestNon2xxIsUnexpectedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := clientsapi.New(srv.URL, nil)
	require.NoError(t, err)

	_, err = client.ListClients(context.Background())
	require.ErrorIs(t, err, clientsapi.ErrUnexpectedStatus)

	_, err = clientsapi.New("not a url", nil)
	require.Error(t, err)
}
