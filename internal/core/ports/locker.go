package ports

// Locker serializes runs that share a workspace.
//
//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// Lock acquires an exclusive lock on path without blocking.
	// It fails with domain.ErrWorkspaceLocked if another process holds it.
	Lock(path string) (release func() error, err error)
}
