package device

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// MaxRecordSize bounds the bytes of a record before its terminator.
const MaxRecordSize = 4096

const readChunkSize = 256

// Config configures a Reader.
type Config struct {
	// ReadTimeout is the per-read poll interval. The capture budget bounds the total wait.
	ReadTimeout time.Duration
	// Terminator ends a record. Defaults to "\n".
	Terminator []byte
}

// Reader captures single records from one physical reader. At most one capture
// holds the device at a time; callers queue on a weighted semaphore and the wait
// counts against their budget.
type Reader struct {
	opener      Opener
	sem         *semaphore.Weighted
	readTimeout time.Duration
	terminator  []byte
	logger      *slog.Logger
}

// NewReader creates a Reader.
func NewReader(opener Opener, cfg Config, logger *slog.Logger) *Reader {
	terminator := cfg.Terminator
	if len(terminator) == 0 {
		terminator = []byte("\n")
	}
	return &Reader{
		opener:      opener,
		sem:         semaphore.NewWeighted(1),
		readTimeout: cfg.ReadTimeout,
		terminator:  terminator,
		logger:      logger,
	}
}

// Capture waits up to budget for one terminated record and returns it with the
// terminator and surrounding whitespace removed. Every failure (busy device,
// open or read error, budget exhausted, oversized or blank record) returns
// cardDomain.ErrNoData. The device channel is closed on every path.
func (r *Reader) Capture(ctx context.Context, budget time.Duration) (cardDomain.RawCardData, error) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		r.noData("device busy", err)
		return nil, cardDomain.ErrNoData
	}
	defer r.sem.Release(1)

	port, err := r.opener.Open()
	if err != nil {
		r.noData("device open failed", err)
		return nil, cardDomain.ErrNoData
	}
	defer func() {
		if err := port.Close(); err != nil {
			r.logger.Warn("failed to close device", slog.Any("error", err))
		}
	}()

	raw, err := r.readRecord(ctx, port)
	if err != nil {
		r.noData("no record", err)
		return nil, cardDomain.ErrNoData
	}
	return raw, nil
}

var (
	errBudgetExhausted = errors.New("capture budget exhausted")
	errRecordTooLarge  = errors.New("record exceeds maximum size")
	errBlankRecord     = errors.New("blank record")
)

func (r *Reader) readRecord(ctx context.Context, port Port) (cardDomain.RawCardData, error) {
	deadline, _ := ctx.Deadline()
	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	defer cryptoDomain.Zero(chunk)

	for {
		if err := ctx.Err(); err != nil {
			cryptoDomain.Zero(buf)
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, errBudgetExhausted
			}
			return nil, err
		}

		wait := min(r.readTimeout, time.Until(deadline))
		if wait <= 0 {
			cryptoDomain.Zero(buf)
			return nil, errBudgetExhausted
		}
		if err := port.SetReadTimeout(wait); err != nil {
			cryptoDomain.Zero(buf)
			return nil, err
		}

		n, err := port.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if idx := bytes.Index(buf, r.terminator); idx >= 0 {
				return r.extract(buf, idx)
			}
			if len(buf) > MaxRecordSize {
				cryptoDomain.Zero(buf)
				return nil, errRecordTooLarge
			}
		}
		if err != nil {
			cryptoDomain.Zero(buf)
			return nil, err
		}
	}
}

// extract copies the trimmed record before idx out of buf and wipes buf,
// including any bytes received after the terminator.
func (r *Reader) extract(buf []byte, idx int) (cardDomain.RawCardData, error) {
	defer cryptoDomain.Zero(buf)

	if idx > MaxRecordSize {
		return nil, errRecordTooLarge
	}
	record := bytes.TrimSpace(buf[:idx])
	if len(record) == 0 {
		return nil, errBlankRecord
	}
	return cardDomain.RawCardData(bytes.Clone(record)), nil
}

// noData logs why a capture produced no data. err never carries device bytes.
func (r *Reader) noData(msg string, err error) {
	r.logger.Warn("capture produced no data",
		slog.String("stage", msg),
		slog.Any("error", err),
	)
}
