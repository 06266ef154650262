package sutureext

import (
	"context"
	"errors"
	"testing"

	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()

	if err := SanitizeError(ctx, nil); err != nil {
		t.Errorf("SanitizeError(nil) = %v", err)
	}

	plain := errors.New("boom")
	if err := SanitizeError(ctx, plain); err != plain {
		t.Errorf("SanitizeError(plain) = %v", err)
	}

	// A service returning a context error while its own context is alive
	// must not look like a shutdown to suture.
	err := SanitizeError(ctx, errors.Join(context.Canceled, suture.ErrDoNotRestart))
	if errors.Is(err, context.Canceled) {
		t.Error("context error leaked through")
	}
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Error("ErrDoNotRestart dropped")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := SanitizeError(canceled, plain); !errors.Is(err, context.Canceled) {
		t.Errorf("SanitizeError(canceled ctx) = %v", err)
	}
}
