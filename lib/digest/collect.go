package digest

import (
	"context"
	"lmssynergy/lib/platforms/synergy"
	"lmssynergy/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// Collect reads everything a digest reports from the portal.
func Collect(ctx context.Context, client *synergy.Client) (Digest, error) {
	ctx, span := tracer.Start(ctx, "digest:Collect")
	defer span.End()

	profile, err := client.Profile(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read profile")
		return Digest{}, err
	}
	notifications, err := client.Notifications(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read notifications")
		return Digest{}, err
	}
	messages, err := client.UnreadMessages(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read unread messages")
		return Digest{}, err
	}

	return Digest{
		Profile:        profile,
		Notifications:  notifications,
		UnreadMessages: messages,
		GeneratedAt:    timezone.Now(),
	}, nil
}
