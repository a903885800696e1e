package device

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const DeviceKey contextKey = "device"

const (
	HeaderName = "X-Device-Id"
	CookieName = "wellcal_device"
)

var ErrNoDevice = errors.New("device not found")

// CurrentId retrieves the calling device's ID from the context. Returns ErrNoDevice if ID not present in context.
func CurrentId(ctx context.Context) (string, error) {
	id, ok := ctx.Value(DeviceKey).(string)
	if !ok || id == "" {
		log.Trace("device not found in context")
		return "", ErrNoDevice
	}
	return id, nil
}

func WithId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, DeviceKey, id)
}
