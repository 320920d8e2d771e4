package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// ValkeyInvalidator drops cached views in Valkey after a moderation
// transition: the admin entry list, the public ranking, and the public
// gallery of the affected contest.
type ValkeyInvalidator struct {
	client valkey.Client
	logger *slog.Logger
}

// NewValkeyInvalidator connects to Valkey and verifies the connection.
func NewValkeyInvalidator(addr string, logger *slog.Logger) (*ValkeyInvalidator, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging valkey: %w", err)
	}

	logger.Info("valkey connection established", "addr", addr)
	return &ValkeyInvalidator{client: client, logger: logger}, nil
}

func (v *ValkeyInvalidator) InvalidateContestViews(ctx context.Context, contestID uuid.UUID) error {
	keys := []string{
		fmt.Sprintf("admin:entries:%s", contestID),
		fmt.Sprintf("public:ranking:%s", contestID),
		fmt.Sprintf("public:gallery:%s", contestID),
	}

	if err := v.client.Do(ctx, v.client.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("deleting cached views for contest %s: %w", contestID, err)
	}

	v.logger.Debug("contest views invalidated", "contest_id", contestID)
	return nil
}

func (v *ValkeyInvalidator) Close() {
	v.client.Close()
}

// NoopInvalidator is installed when no cache address is configured.
type NoopInvalidator struct{}

func (NoopInvalidator) InvalidateContestViews(ctx context.Context, contestID uuid.UUID) error {
	return nil
}
