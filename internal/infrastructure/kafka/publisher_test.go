package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func sampleLogs() []*entity.AuditLog {
	return []*entity.AuditLog{
		{
			ID:        1,
			Action:    entity.ActionUpdate,
			Entity:    "Product",
			EntityPK:  "4",
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Changes:   map[string]any{"price": []any{json.Number("10.00"), json.Number("12.5")}},
		},
	}
}

func TestAuditPublisher_Publica(t *testing.T) {
	w := &fakeWriter{}
	p := newAuditPublisher(w, nil)

	p.AfterCommit(context.Background(), sampleLogs())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "Product:4", string(w.msgs[0].Key))
	assert.JSONEq(t, `{
		"id": 1, "action": "UPDATE", "entity": "Product", "entity_pk": "4",
		"user_id": null, "ip": null, "created_at": "2024-01-02T03:04:05Z",
		"changes": {"price": [10.00, 12.5]}
	}`, string(w.msgs[0].Value))
}

func TestAuditPublisher_FalloSoloSeRegistra(t *testing.T) {
	var buf bytes.Buffer
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newAuditPublisher(w, logger.NewWithWriter(&buf, "debug").Named("kafka"))

	assert.NotPanics(t, func() { p.AfterCommit(context.Background(), sampleLogs()) })
	assert.Contains(t, buf.String(), "broker caído")
	assert.Contains(t, buf.String(), "publicación de auditoría fallida")
	// El componente lo fija quien construye el publicador, una sola vez.
	assert.Equal(t, 1, strings.Count(buf.String(), `"component":"kafka"`))
}

func TestAuditPublisher_Nil(t *testing.T) {
	var p *AuditPublisher
	assert.NotPanics(t, func() { p.AfterCommit(context.Background(), sampleLogs()) })
	assert.NoError(t, p.Close())
}
