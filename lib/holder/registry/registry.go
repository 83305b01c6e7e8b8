package registry

import (
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tickerhub/pricehold/lib/holder/sholder"
	"golang.org/x/exp/constraints"
)

var Logger = logger.GetLogger("registry")

// Registry is a process-wide collection of named shared holders, e.g. one
// holder per price feed or exchange. Holders are created lazily on first
// lookup; all callers asking for the same name receive handles to the same
// logical holder.
//
// Thread-safety: All methods are safe to call concurrently.
type Registry[T constraints.Unsigned] struct {
	holders *xsync.MapOf[string, *sholder.Holder[T]]
}

// New creates an empty registry.
func New[T constraints.Unsigned]() *Registry[T] {
	return &Registry[T]{
		holders: xsync.NewMapOf[string, *sholder.Holder[T]](),
	}
}

// Get returns a handle to the holder registered under name, creating the
// holder if it does not exist yet.
func (r *Registry[T]) Get(name string) *sholder.Holder[T] {
	h, loaded := r.holders.LoadOrCompute(name, func() *sholder.Holder[T] {
		return sholder.New[T]()
	})
	if !loaded {
		Logger.Infof("created holder %q", name)
	}
	return h
}

// Lookup returns a handle to the holder registered under name without
// creating it. The boolean return value indicates whether it exists.
func (r *Registry[T]) Lookup(name string) (*sholder.Holder[T], bool) {
	return r.holders.Load(name)
}

// Remove unregisters the holder with the given name. Existing handles stay
// usable; the registry merely stops handing the holder out. Returns whether
// a holder was registered under the name.
func (r *Registry[T]) Remove(name string) bool {
	_, loaded := r.holders.LoadAndDelete(name)
	if loaded {
		Logger.Infof("removed holder %q", name)
	}
	return loaded
}

// Names returns the names of all registered holders in no particular order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, r.holders.Size())
	r.holders.Range(func(name string, _ *sholder.Holder[T]) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Size returns the number of registered holders.
func (r *Registry[T]) Size() int {
	return r.holders.Size()
}
