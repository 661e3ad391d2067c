package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"larder/internal/core/id"
	"larder/internal/domain/shoppinglist"
)

// CompressionAlgo specifies the compression algorithm used for archived
// payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// GenerationEntry is one archived shopping-list generation run.
type GenerationEntry struct {
	ID                id.ID           `db:"id"`
	HouseholdID       id.ID           `db:"household_id"`
	ItemCount         int             `db:"item_count"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// GenerationLog archives generated shopping lists for later inspection.
// Implements shoppinglist.Archiver.
type GenerationLog struct {
	pool              *Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewGenerationLog creates a generation log archiver.
func NewGenerationLog(pool *Pool) (*GenerationLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &GenerationLog{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Archive records one generation run. Large payloads are stored
// zstd-compressed.
func (l *GenerationLog) Archive(ctx context.Context, householdID id.ID, items []shoppinglist.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	entry := GenerationEntry{
		ID:              id.New(),
		HouseholdID:     householdID,
		ItemCount:       len(items),
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if len(payload) > l.compressThreshold {
		entry.PayloadCompressed = l.encoder.EncodeAll(payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO generation_log (
			id, household_id, item_count,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = l.pool.Exec(ctx, sql,
		entry.ID, entry.HouseholdID, entry.ItemCount,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	return err
}

// History returns the most recent generation runs for a household, with
// compressed payloads expanded.
func (l *GenerationLog) History(ctx context.Context, householdID id.ID, limit int) ([]GenerationEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	sql := `
		SELECT id, household_id, item_count,
			   payload, payload_compressed, compression_algo, created_at
		FROM generation_log
		WHERE household_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := l.pool.Query(ctx, sql, householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("query generation log: %w", err)
	}
	defer rows.Close()

	var entries []GenerationEntry
	for rows.Next() {
		var e GenerationEntry
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.ItemCount,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.CompressionAlgo == CompressionZstd {
			payload, err := l.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = payload
			e.PayloadCompressed = nil
			e.CompressionAlgo = CompressionNone
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
