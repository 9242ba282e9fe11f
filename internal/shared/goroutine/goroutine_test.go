package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paywall-app/internal/shared/logger"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNop(), "panicky", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestSafeGo_RunsFn(t *testing.T) {
	ran := make(chan bool, 1)
	SafeGo(logger.NewNop(), "ok", func() { ran <- true })

	select {
	case v := <-ran:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
