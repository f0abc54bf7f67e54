package redis

import (
	"context"
	"errors"
	"testing"
)

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect(context.Background(), "http://not-redis"); err == nil {
		t.Errorf("non-redis URL accepted")
	}
}
