// Package kafka publica en un tópico los registros de auditoría ya confirmados.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/uow"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

var _ uow.CommitObserver = (*AuditPublisher)(nil)

const writeTimeout = 5 * time.Second

// messageWriter subconjunto de *kafka.Writer usado por el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditPublisher observador post-commit: un fallo al publicar se registra en el log y no deshace el commit.
type AuditPublisher struct {
	writer messageWriter
	log    *logger.Logger
}

// NewAuditPublisher crea el publicador sobre los brokers y el tópico dados.
func NewAuditPublisher(brokers []string, topic string, log *logger.Logger) *AuditPublisher {
	return newAuditPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}, log)
}

func newAuditPublisher(w messageWriter, log *logger.Logger) *AuditPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditPublisher{writer: w, log: log}
}

// event forma publicada de un registro de auditoría.
type event struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityPK  string         `json:"entity_pk"`
	UserID    *int64         `json:"user_id"`
	IP        *string        `json:"ip"`
	CreatedAt time.Time      `json:"created_at"`
	Changes   map[string]any `json:"changes"`
}

// AfterCommit publica un mensaje por registro con clave "<Entidad>:<pk>".
func (p *AuditPublisher) AfterCommit(ctx context.Context, logs []*entity.AuditLog) {
	if p == nil || p.writer == nil {
		return
	}
	msgs := make([]kafka.Message, 0, len(logs))
	for _, l := range logs {
		value, err := json.Marshal(event{
			ID:        l.ID,
			Action:    l.Action,
			Entity:    l.Entity,
			EntityPK:  l.EntityPK,
			UserID:    l.UserID,
			IP:        l.IP,
			CreatedAt: l.CreatedAt,
			Changes:   l.Changes,
		})
		if err != nil {
			p.log.Error().Err(err).Int64("audit_id", l.ID).Msg("no se pudo serializar el registro de auditoría")
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(l.Entity + ":" + l.EntityPK),
			Value: value,
			Time:  l.CreatedAt,
		})
	}
	if len(msgs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error().Err(err).Int("messages", len(msgs)).Msg("publicación de auditoría fallida")
		return
	}
	p.log.Debug().Int("messages", len(msgs)).Msg("auditoría publicada")
}

// Close cierra el writer.
func (p *AuditPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
