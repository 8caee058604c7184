package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// Requester is the subset of *nats.Conn used to talk to the settlement service.
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// ConnConfig holds the NATS connection settings.
type ConnConfig struct {
	URL   string
	Token string
	Name  string
}

// Connect opens a NATS connection.
func Connect(cfg ConnConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// Request is the message published to the settlement subject.
type Request struct {
	Token      string                 `json:"token"`
	Ciphertext []byte                 `json:"ciphertext"`
	Nonce      []byte                 `json:"nonce"`
	Algorithm  cryptoDomain.Algorithm `json:"algorithm"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Reply is the message the settlement service answers with.
type Reply struct {
	Status string `json:"status"`
}

// NATSProcessor settles transactions over NATS request/reply.
type NATSProcessor struct {
	requester Requester
	subject   string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewNATSProcessor creates a NATSProcessor publishing to subject.
func NewNATSProcessor(requester Requester, subject string, timeout time.Duration, logger *slog.Logger) *NATSProcessor {
	return &NATSProcessor{
		requester: requester,
		subject:   subject,
		timeout:   timeout,
		logger:    logger,
	}
}

// Process sends the tokenized record and maps the reply. Accepted and declined are
// business answers. Timeouts, missing responders and malformed replies return an
// error wrapping ErrSettlementUnavailable.
func (p *NATSProcessor) Process(
	ctx context.Context,
	record *cardDomain.TransactionRecord,
) (cardDomain.SettlementStatus, error) {
	data, err := json.Marshal(Request{
		Token:      record.Token.String(),
		Ciphertext: record.Ciphertext,
		Nonce:      record.Nonce,
		Algorithm:  record.Algorithm,
		CreatedAt:  record.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode settlement request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg, err := p.requester.RequestWithContext(ctx, p.subject, data)
	if err != nil {
		p.logger.Warn("settlement request failed",
			slog.String("token", record.Token.String()),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: %w", cardDomain.ErrSettlementUnavailable, err)
	}

	var reply Reply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return "", fmt.Errorf("%w: malformed reply: %w", cardDomain.ErrSettlementUnavailable, err)
	}

	switch status := cardDomain.SettlementStatus(reply.Status); status {
	case cardDomain.SettlementAccepted, cardDomain.SettlementDeclined:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", cardDomain.ErrSettlementUnavailable, reply.Status)
	}
}
