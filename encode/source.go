package encode

import (
	"reflect"
	"sync"
)

// Source is a generator of Encodables. Compound type Encodables take Source as an argument upon creation,
// and use it for the generation of their element types.
//
// There are a few implementations of Source in this package, and in many cases wrapping Sources that provide different features is helpful.
// CachingSource for example, has no idea what Encodables should be used to encode a given type, rather, it wraps a Source which does,
// and adds caching and handling of recursive types.
type Source interface {
	// NewEncodable returns a new Encodable to be used to serialise the given type.
	//
	// It returns a pointer to an Encodable as the Encodable may not be complete when it is returned;
	// a recursive type is given a pointer to itself while it is still being built.
	//
	// The Source passed to NewEncodable must be passed to the Encodable that it creates. It is used by wrapping Sources to pass themselves to new Encodables,
	// so they don't loose control of element Encodable generation.
	NewEncodable(reflect.Type, Source) *Encodable
}

// SourceFromFunc creates a source from a function.
// It will substitute itself if NewEncodable() is called with a nil-source.
func SourceFromFunc(source func(reflect.Type, Source) Encodable) Source {
	return funcSource{newEncodable: source}
}

type funcSource struct {
	newEncodable func(reflect.Type, Source) Encodable
}

func (s funcSource) NewEncodable(ty reflect.Type, source Source) *Encodable {
	if source == nil {
		source = s
	}
	enc := s.newEncodable(ty, source)
	return &enc
}

// NewCachingSource returns a new CachingSource, using source for cache misses.
func NewCachingSource(source Source) *CachingSource {
	return &CachingSource{
		cache:  make(map[reflect.Type]*Encodable),
		Source: source,
	}
}

// CachingSource provides a cache of Encodables.
// The entry for a type is created before its Encodable is built, so element Encodables of recursive types receive the pointer
// that is filled once the outer Encodable is complete.
//
// It is safe for concurrent use, however the Encodables it returns are not.
type CachingSource struct {
	mutex sync.Mutex
	cache map[reflect.Type]*Encodable
	added []reflect.Type
	Source
}

// NewEncodable implements Source.
// CachingSource always passes itself to the wrapped Source, ignoring parent.
//
// If the wrapped Source panics, every entry added while building ty is removed before the panic continues,
// so no cached Encodable is left pointing at an unfinished one.
func (src *CachingSource) NewEncodable(ty reflect.Type, parent Source) *Encodable {
	src.mutex.Lock()
	defer src.mutex.Unlock()

	src.added = src.added[:0]
	built := false
	defer func() {
		if !built {
			for _, t := range src.added {
				delete(src.cache, t)
			}
		}
		clear(src.added)
		src.added = src.added[:0]
	}()

	enc := src.newEncodable(ty)
	built = true
	return enc
}

func (src *CachingSource) newEncodable(ty reflect.Type) *Encodable {
	if enc, ok := src.cache[ty]; ok {
		return enc
	}

	enc := new(Encodable)
	src.cache[ty] = enc
	src.added = append(src.added, ty)

	*enc = *src.Source.NewEncodable(ty, lockedSource{src})
	return enc
}

// lockedSource is passed to element Encodables while the CachingSource mutex is held.
type lockedSource struct {
	src *CachingSource
}

func (s lockedSource) NewEncodable(ty reflect.Type, _ Source) *Encodable {
	return s.src.newEncodable(ty)
}
