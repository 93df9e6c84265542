// Package notify publica eventos de dominio en Redis Pub/Sub para que los
// frontends conectados refresquen sus vistas en tiempo real.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

var _ ports.Notifier = (*RedisPublisher)(nil)

// RedisPublisher adaptador de Notifier sobre Redis Pub/Sub. La publicación es
// best-effort: un fallo se registra y no propaga; la transacción de negocio
// ya quedó confirmada cuando se emite el evento.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisPublisher conecta a Redis y verifica la conexión con un ping.
func NewRedisPublisher(ctx context.Context, addr, password string, db int, channel string, log *logger.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &RedisPublisher{client: client, channel: channel, log: log}, nil
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	At      string `json:"at"`
}

// Publish serializa el evento y lo publica en el canal configurado.
func (p *RedisPublisher) Publish(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(envelope{
		Event:   event,
		Payload: payload,
		At:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("No se pudo serializar el evento")
		return
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("No se pudo publicar el evento")
		return
	}
	p.log.Debug().Str("event", event).Str("channel", p.channel).Msg("Evento publicado")
}

// Close cierra la conexión con Redis.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
