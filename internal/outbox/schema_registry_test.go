package outbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureSchemaReturnsExistingID(t *testing.T) {
	registered := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/subjects/research_activity_events-value/versions/latest":
			json.NewEncoder(w).Encode(map[string]int{"id": 42})
		case r.Method == http.MethodPost:
			registered++
			json.NewEncoder(w).Encode(map[string]int{"id": 99})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "research_activity_events-value", recordCreatedSchema)
	require.NoError(t, err)
	require.Equal(t, 42, id)
	require.Zero(t, registered)
}

func TestEnsureSchemaRegistersMissingSubject(t *testing.T) {
	var registeredBody struct {
		SchemaType string `json:"schemaType"`
		Schema     string `json:"schema"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&registeredBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 7})
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "research_activity_events-value", recordDeletedSchema)
	require.NoError(t, err)
	require.Equal(t, 7, id)
	require.Equal(t, "JSON", registeredBody.SchemaType)
	require.Equal(t, recordDeletedSchema, registeredBody.Schema)
}

func TestEnsureSchemaDoesNotRegisterOnLookupFailure(t *testing.T) {
	registered := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			registered++
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	_, err := client.EnsureSchema(context.Background(), "research_activity_events-value", recordUpdatedSchema)
	require.Error(t, err)
	require.Zero(t, registered)
}

func TestEventProducerReusesWriterPerTopic(t *testing.T) {
	producer := NewEventProducer([]string{"localhost:9092"}, zap.NewNop())

	first := producer.writerFor("research_activity_events")
	second := producer.writerFor("research_activity_events")
	require.Same(t, first, second)

	other := producer.writerFor("other_topic")
	require.NotSame(t, first, other)

	require.NoError(t, producer.Close())
	require.Empty(t, producer.writers)
}
