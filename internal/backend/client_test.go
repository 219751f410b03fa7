package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cotiza-app/quote-gateway/internal/config"
	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.BackendConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5,
		PDFTimeout:     5,
	}, zap.NewNop())
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(&config.BackendConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestFetchReferenceData(t *testing.T) {
	t.Run("maps wire fields and tolerates numeric ids", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/clientes", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"id":7,"nombre":"Acme SA","email":"ventas@acme.example","telefono":"555-0101"}]`)
		})
		mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"id":"1","name":"Consulting","price":10},{"id":2,"name":"Support","price":"5.5"}]`)
		})
		mux.HandleFunc("/item-types", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"id":1,"nombre":"Servicios"}]`)
		})
		client, _ := newTestClient(t, mux)

		data, err := client.FetchReferenceData(context.Background())
		require.NoError(t, err)

		require.Len(t, data.Clients, 1)
		assert.Equal(t, "7", data.Clients[0].ID)
		assert.Equal(t, "Acme SA", data.Clients[0].Name)
		assert.Equal(t, "555-0101", data.Clients[0].Phone)

		require.Len(t, data.Items, 2)
		assert.Equal(t, "10.00", data.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, "2", data.Items[1].ID)
		assert.Equal(t, "5.50", data.Items[1].UnitPrice.StringFixed(2))

		require.Len(t, data.ItemTypes, 1)
		assert.Equal(t, "Servicios", data.ItemTypes[0].Name)
	})

	t.Run("missing item-types endpoint yields empty list", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/clientes", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[]`)
		})
		mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[]`)
		})
		client, _ := newTestClient(t, mux)

		data, err := client.FetchReferenceData(context.Background())
		require.NoError(t, err)
		assert.Empty(t, data.ItemTypes)
	})

	t.Run("failing clients endpoint fails the load", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/clientes", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		client, _ := newTestClient(t, mux)

		_, err := client.FetchReferenceData(context.Background())
		assert.ErrorIs(t, err, ErrBackendStatus)
	})
}

func TestSubmitQuotation(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/cotizaciones", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":99}`)
	})
	client, _ := newTestClient(t, mux)

	created, err := client.SubmitQuotation(context.Background(), domain.Submission{
		ClientID: "7",
		Items: []domain.SubmissionItem{
			{ItemID: "1", Quantity: 2},
			{ItemID: "2", Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "99", created.ID)

	// Wire format: clienteId plus items with id and quantity.
	assert.Equal(t, "7", gotBody["clienteId"])
	items, ok := gotBody["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, float64(2), first["quantity"])
}

func TestListQuotations(t *testing.T) {
	t.Run("unwraps envelope and normalizes totals", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/cotizaciones", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"cotizaciones":[
				{"id":1,"cliente_nombre":"Acme SA","fecha":"2026-08-30","total":36.5},
				{"id":"2","cliente_nombre":"Beta SRL","fecha":"2026-08-29","total":"100"}
			]}`)
		})
		client, _ := newTestClient(t, mux)

		summaries, err := client.ListQuotations(context.Background())
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "1", summaries[0].ID)
		assert.Equal(t, "36.50", summaries[0].Total)
		assert.Equal(t, "100.00", summaries[1].Total)
	})

	t.Run("empty history", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/cotizaciones", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"cotizaciones":[]}`)
		})
		client, _ := newTestClient(t, mux)

		summaries, err := client.ListQuotations(context.Background())
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})
}

func TestFetchQuotationDetail(t *testing.T) {
	t.Run("computes line totals", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/cotizaciones/5", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{
				"id":5,
				"cliente_nombre":"Acme SA",
				"fecha":"2026-08-30",
				"items":[{"name":"Consulting","price":10,"quantity":2},{"name":"Support","price":5.5,"quantity":3}],
				"total":36.5
			}`)
		})
		client, _ := newTestClient(t, mux)

		detail, err := client.FetchQuotationDetail(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, "5", detail.ID)
		assert.Equal(t, "36.50", detail.Total)
		require.Len(t, detail.Items, 2)
		assert.Equal(t, "20.00", detail.Items[0].LineTotal)
		assert.Equal(t, "16.50", detail.Items[1].LineTotal)
		assert.Equal(t, "5.50", detail.Items[1].UnitPrice)
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.NotFoundHandler())

		_, err := client.FetchQuotationDetail(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDownloadPDF(t *testing.T) {
	t.Run("streams the body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/cotizaciones/5/pdf", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 fake"))
		})
		client, _ := newTestClient(t, mux)

		body, err := client.DownloadPDF(context.Background(), "5")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(data))
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.NotFoundHandler())

		_, err := client.DownloadPDF(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/clientes", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme SA", body["nombre"])
		assert.Equal(t, "ventas@acme.example", body["email"])
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":12,"nombre":"Acme SA","email":"ventas@acme.example","telefono":""}`)
	})
	client, _ := newTestClient(t, mux)

	created, err := client.CreateClient(context.Background(), domain.CreateClientRequest{
		Name:  "Acme SA",
		Email: "ventas@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "12", created.ID)
	assert.Equal(t, "Acme SA", created.Name)
}

func TestCreateItem(t *testing.T) {
	t.Run("creates item", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Cableado", body["name"])
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":3,"name":"Cableado","price":"7.25"}`)
		})
		client, _ := newTestClient(t, mux)

		created, err := client.CreateItem(context.Background(), domain.CreateItemRequest{
			Name:      "Cableado",
			UnitPrice: "7.25",
		})
		require.NoError(t, err)
		assert.Equal(t, "3", created.ID)
		assert.Equal(t, "7.25", created.UnitPrice.StringFixed(2))
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		client, _ := newTestClient(t, http.NotFoundHandler())

		_, err := client.CreateItem(context.Background(), domain.CreateItemRequest{
			Name:      "Cableado",
			UnitPrice: "not-a-number",
		})
		assert.Error(t, err)
	})
}
