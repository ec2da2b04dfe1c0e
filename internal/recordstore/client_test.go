package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
)

func TestClientCreate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/alumni", r.URL.Path)
		var in alumni.Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Empty(t, in.ID)
		in.ID = "srv-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer ts.Close()

	c := New(ts.URL+"/api/", time.Second)
	got, err := c.Create(context.Background(), alumni.Record{ID: "ignored", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, "A", got.FirstName)
}

func TestClientCreateConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"an alumni with this name already exists"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).Create(context.Background(), alumni.Record{})
	assert.ErrorIs(t, err, alumni.ErrDuplicateName)
}

func TestClientExistsByNameEncodesQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check-name", r.URL.Path)
		assert.Equal(t, "Anne Marie", r.URL.Query().Get("firstName"))
		assert.Equal(t, "O'Neil&Co", r.URL.Query().Get("lastName"))
		_, _ = w.Write([]byte(`{"exists":true}`))
	}))
	defer ts.Close()

	ok, err := New(ts.URL, time.Second).ExistsByName(context.Background(), "Anne Marie", "O'Neil&Co")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClientListTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"db down"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).List(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "list", te.Op)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "db down", te.Message)
}

func TestClientNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url, time.Second).ExistsByName(context.Background(), "a", "b")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
	assert.Error(t, te.Unwrap())
}
