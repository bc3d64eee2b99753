package sink

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"reviewpulse/internal/models"
)

const (
	dedupeSetKey    = "reviewlog:seen"
	dedupeTTLSecs   = 86400
	dedupeOpTimeout = 3 * time.Second
)

// ValkeyDeduper remembers record fingerprints for a day so a re-submitted
// record is acknowledged without a second append. Any Valkey failure is
// treated as "not seen": the sink would rather risk a duplicate row than
// drop a record.
type ValkeyDeduper struct {
	client valkey.Client
}

func NewValkeyDeduper(addr, password string) (*ValkeyDeduper, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, fmt.Errorf("[ValkeyDeduper] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dedupeOpTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyDeduper] failed to ping valkey: %w", err)
	}

	slog.Info("[ValkeyDeduper] Connected to valkey", slog.String("addr", addr))
	return &ValkeyDeduper{client: client}, nil
}

func (d *ValkeyDeduper) Close() {
	d.client.Close()
}

func (d *ValkeyDeduper) Seen(ctx context.Context, record models.LogRecord) bool {
	res := d.client.Do(ctx, d.client.B().Sismember().
		Key(dedupeSetKey).
		Member(Fingerprint(record)).
		Build())
	if err := res.Error(); err != nil {
		slog.Warn("[ValkeyDeduper] Lookup failed, treating as unseen",
			slog.String("error", err.Error()))
		return false
	}

	seen, err := res.AsBool()
	if err != nil {
		return false
	}
	return seen
}

func (d *ValkeyDeduper) Mark(ctx context.Context, record models.LogRecord) error {
	completed := []valkey.Completed{
		d.client.B().Sadd().Key(dedupeSetKey).Member(Fingerprint(record)).Build(),
		d.client.B().Expire().Key(dedupeSetKey).Seconds(dedupeTTLSecs).Build(),
	}

	for _, res := range d.client.DoMulti(ctx, completed...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyDeduper] failed to mark record: %w", err)
		}
	}
	return nil
}

// Fingerprint identifies a record by its visible row content; two records
// differing only in meta (e.g. loggedAt) still count as duplicates.
func Fingerprint(record models.LogRecord) string {
	sum := sha256.Sum256([]byte(record.TsISO + "|" + record.Review + "|" + record.Sentiment))
	return hex.EncodeToString(sum[:])
}
