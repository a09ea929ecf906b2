package lock_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/eykd/catr-go/internal/lock"
	"github.com/gofrs/flock"
)

// mockFlocker is a test double for the Flocker interface.
type mockFlocker struct {
	tryRLockResult bool
	tryRLockErr    error
	unlockErr      error
	tryRLockCalled bool
	unlockCalled   bool
}

func (m *mockFlocker) TryRLock() (bool, error) {
	m.tryRLockCalled = true
	return m.tryRLockResult, m.tryRLockErr
}

func (m *mockFlocker) Unlock() error {
	m.unlockCalled = true
	return m.unlockErr
}

func TestLock_TryRLock(t *testing.T) {
	errPermDenied := errors.New("permission denied")

	tests := []struct {
		name           string
		tryRLockResult bool
		tryRLockErr    error
		wantErr        error
	}{
		{
			name:           "succeeds when lock is available",
			tryRLockResult: true,
		},
		{
			name:           "returns ErrLocked when exclusive lock is held",
			tryRLockResult: false,
			wantErr:        lock.ErrLocked,
		},
		{
			name:        "wraps underlying flock error",
			tryRLockErr: errPermDenied,
			wantErr:     errPermDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{
				tryRLockResult: tt.tryRLockResult,
				tryRLockErr:    tt.tryRLockErr,
			}
			l := lock.New(m)

			err := l.TryRLock(context.Background())

			if !m.tryRLockCalled {
				t.Error("expected TryRLock to be called on flocker")
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLock_TryRLock_CancelledContext(t *testing.T) {
	m := &mockFlocker{tryRLockResult: true}
	l := lock.New(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.TryRLock(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if m.tryRLockCalled {
		t.Error("TryRLock should not reach the flocker with a cancelled context")
	}
}

func TestLock_Unlock(t *testing.T) {
	tests := []struct {
		name      string
		unlockErr error
		wantErr   bool
	}{
		{
			name: "succeeds when unlock works",
		},
		{
			name:      "propagates unlock error",
			unlockErr: errors.New("unlock failed"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{unlockErr: tt.unlockErr}
			l := lock.New(m)

			err := l.Unlock()

			if !m.unlockCalled {
				t.Error("expected Unlock to be called on flocker")
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.unlockErr != nil && !errors.Is(err, tt.unlockErr) {
				t.Errorf("error should wrap %v, got: %v", tt.unlockErr, err)
			}
		})
	}
}

func TestNewFromPath_SharedLocksCoexist(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("flock semantics differ on windows")
	}
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("data\n"), 0o444); err != nil {
		t.Fatal(err)
	}

	first := lock.NewFromPath(path)
	second := lock.NewFromPath(path)

	if err := first.TryRLock(context.Background()); err != nil {
		t.Fatalf("first TryRLock() error: %v", err)
	}
	defer first.Unlock()

	if err := second.TryRLock(context.Background()); err != nil {
		t.Fatalf("second TryRLock() error: %v", err)
	}
	defer second.Unlock()
}

func TestNewFromPath_ExclusiveHolderBlocksReaders(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("flock semantics differ on windows")
	}
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("data\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	writer := flock.New(path)
	ok, err := writer.TryLock()
	if err != nil || !ok {
		t.Fatalf("exclusive TryLock() = %v, %v", ok, err)
	}
	defer writer.Unlock()

	err = lock.NewFromPath(path).TryRLock(context.Background())
	if !errors.Is(err, lock.ErrLocked) {
		t.Errorf("TryRLock() error = %v, want ErrLocked", err)
	}
}
