package binrec

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// The process-wide registry caches one codec per record type. Reads take the
// shared read lock, which waits only while an insertion or ClearRegistry holds
// the write lock; construction itself runs outside the lock. The insertion
// path is deduplicated so concurrent first callers build the codec exactly
// once.
var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]any)
	buildGroup singleflight.Group
)

// For returns the process-wide codec for record type T, constructing and
// caching it on first use. Safe for concurrent callers; construction errors
// are returned to every caller that raced on the first build and nothing is
// cached for the type.
func For[T any]() (*Codec[T], error) {
	tt := reflect.TypeOf((*T)(nil)).Elem()

	registryMu.RLock()
	cached, ok := registry[tt]
	registryMu.RUnlock()
	if ok {
		return cached.(*Codec[T]), nil
	}

	v, err, _ := buildGroup.Do(registryKey(tt), func() (any, error) {
		// a losing racer may have inserted between the RLock and here
		registryMu.RLock()
		cached, ok := registry[tt]
		registryMu.RUnlock()
		if ok {
			return cached, nil
		}

		c, err := NewCodec[T]()
		if err != nil {
			return nil, err
		}

		registryMu.Lock()
		registry[tt] = c
		registryMu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Codec[T]), nil
}

// ClearRegistry drops all cached codecs. Pooled scratch buffers are not
// touched; the pool sheds them under GC pressure on its own. Codecs already
// handed out keep working.
func ClearRegistry() {
	registryMu.Lock()
	registry = make(map[reflect.Type]any)
	registryMu.Unlock()
}

func registryKey(t reflect.Type) string {
	return fmt.Sprintf("%s/%s", t.PkgPath(), t)
}
