package bencs

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

// NewEncoder returns a new Encoder writing to w, using the default config.
func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderConfig(w, nil)
}

// NewEncoderConfig returns a new Encoder writing to w, using config.
func NewEncoderConfig(w io.Writer, config *Config) *Encoder {
	config = config.copyAndFill()
	return &Encoder{
		w:      w,
		log:    config.Logger,
		source: encode.NewCachingSource(config.Source),
	}
}

// Encoder writes values to a stream.
// Calls to Encode are serialised, so a value is always written whole.
type Encoder struct {
	w      io.Writer
	mutex  sync.Mutex
	log    *zap.Logger
	source *encode.CachingSource
}

// Encode writes v.
// If v is a pointer, the value it points to is written.
func (e *Encoder) Encode(v any) (err error) {
	if v == nil {
		return encio.NewError(encio.ErrNilPointer, "cannot encode nil interface", "")
	}

	val := reflect.ValueOf(v)

	e.mutex.Lock()
	defer e.mutex.Unlock()

	defer func() {
		if err != nil {
			e.log.Debug("encode failed", zap.Stringer("type", val.Type()), zap.Error(err))
		}
	}()

	enc, err := newEncodable(e.source, val.Type())
	if err != nil {
		return err
	}

	return (*enc).Encode(e.w, val)
}

// newEncodable returns the Encodable for ty from source,
// returning the error encode.Source panics with if ty cannot be encoded.
func newEncodable(source encode.Source, ty reflect.Type) (enc *encode.Encodable, err error) {
	defer func() {
		if r := recover(); r != nil {
			encErr, ok := r.(encio.Error)
			if !ok {
				panic(r)
			}
			err = encErr
		}
	}()

	enc = source.NewEncodable(ty, nil)
	if enc == nil || *enc == nil {
		return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("no encodable for %v", ty), "")
	}
	return enc, nil
}
