package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/pkg/config"
	"github.com/agrimart/agrimart-gateway/pkg/session"
)

func testClient(baseURL string) *Client {
	return NewClient(config.BackendConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		RetryGETs:    1,
		RetryBackoff: 10 * time.Millisecond,
	}, zap.NewNop())
}

func authedCtx() context.Context {
	return session.WithIdentity(context.Background(), &session.Identity{
		UserID: 7,
		Email:  "farmer@agrimart.lk",
		Role:   "farmer",
		Token:  "session-token",
	})
}

func TestFetchCollection_UnwrapsEnvelopeAndDropsSoftDeleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farmer/viewProducts", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userID"))
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"farmerGetProducts": []model.Product{
				{ID: 1, Name: "Tomato"},
				{ID: 2, Name: "Old stock", Deleted: true},
				{ID: 3, Name: "Mango"},
			},
		})
	}))
	defer srv.Close()

	got, err := FetchCollection[model.Product](authedCtx(), testClient(srv.URL), FarmerProducts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tomato", got[0].Name)
	assert.Equal(t, "Mango", got[1].Name)
}

func TestFetchCollection_OwnerScopedFailsFastWithoutIdentity(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := FetchCollection[model.Product](context.Background(), testClient(srv.URL), FarmerProducts)

	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "no request may be issued without a session")
}

func TestFetchCollection_ServerErrorCarriesBackendMessage(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database exploded"}`))
	}))
	defer srv.Close()

	_, err := FetchCollection[model.Product](authedCtx(), testClient(srv.URL), FarmerProducts)

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, "database exploded", serr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "server errors are not retried")
}

func TestFetchCollection_MissingEnvelopeKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"somethingElse":[]}`))
	}))
	defer srv.Close()

	_, err := FetchCollection[model.Product](authedCtx(), testClient(srv.URL), FarmerProducts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farmerGetProducts")
}

func TestGetRetriesTransportFailuresOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n == 1 {
			// kill the connection to force a transport error
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"farmerGetProducts":[{"productID":1,"productName":"Tomato"}]}`))
	}))
	defer srv.Close()

	got, err := FetchCollection[model.Product](authedCtx(), testClient(srv.URL), FarmerProducts)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestTimeoutIsClassifiedDistinctly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(config.BackendConfig{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	}, zap.NewNop())

	_, err := FetchCollection[model.Product](authedCtx(), client, FarmerProducts)

	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.True(t, nerr.Timeout)
	assert.Contains(t, nerr.Error(), "timed out")
}

func TestConnectionFailureIsClassifiedAsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := NewClient(config.BackendConfig{
		BaseURL: srv.URL,
		Timeout: time.Second,
	}, zap.NewNop())

	_, err := FetchCollection[model.Product](authedCtx(), client, FarmerProducts)

	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.False(t, nerr.Timeout)
	assert.Contains(t, nerr.Error(), "unreachable")
}

func TestFetchOffer_FirstOfManyWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farmer/viewOffers/4", r.URL.Path)
		_, _ = w.Write([]byte(`{"farmerGetOffers":[
			{"offerName":"first","newPrice":75,"offerStatus":true},
			{"offerName":"second","newPrice":50,"offerStatus":true}
		]}`))
	}))
	defer srv.Close()

	offer, err := testClient(srv.URL).FetchOffer(context.Background(), ProductOffers, 4)
	require.NoError(t, err)
	require.NotNil(t, offer)
	assert.Equal(t, "first", offer.Name)
	assert.Equal(t, 75.0, offer.NewPrice)
}

func TestFetchOffer_AbsenceMeansNoOffer(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"empty array": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"farmerGetOffers":[]}`))
		},
		"missing key": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		},
	}

	for name, hf := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(hf)
			defer srv.Close()

			offer, err := testClient(srv.URL).FetchOffer(context.Background(), ProductOffers, 4)
			require.NoError(t, err)
			assert.Nil(t, offer)
		})
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("blob"))
	}))
	defer srv.Close()

	data, contentType, err := testClient(srv.URL).FetchImage(context.Background(), ProductImage, 9)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestFetchImage_EmptyBodyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).FetchImage(context.Background(), ProductImage, 9)
	assert.Error(t, err)
}

func TestDispatch_PostsActionWithFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/consumer/orders/12/confirm", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(12), body["id"])
		assert.Equal(t, "Confirmed", body["orderStatus"])
	}))
	defer srv.Close()

	err := testClient(srv.URL).Dispatch(authedCtx(), "consumer/orders", 12, model.ActionConfirm,
		map[string]interface{}{"orderStatus": "Confirmed"})
	require.NoError(t, err)
}

func TestDispatch_RequiresIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request may be issued without a session")
	}))
	defer srv.Close()

	err := testClient(srv.URL).Dispatch(context.Background(), "consumer/orders", 12, model.ActionConfirm, nil)

	var perr *PreconditionError
	assert.ErrorAs(t, err, &perr)
}
