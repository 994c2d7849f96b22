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

// NewDecoder returns a new Decoder reading from r, using the default config.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderConfig(r, nil)
}

// NewDecoderConfig returns a new Decoder reading from r, using config.
// If r does not implement encio.Scanner it is buffered, and may be read past the last decoded value.
func NewDecoderConfig(r io.Reader, config *Config) *Decoder {
	config = config.copyAndFill()
	return &Decoder{
		r:        encio.NewScanner(r),
		maxDepth: config.MaxDepth,
		log:      config.Logger,
		source:   encode.NewCachingSource(config.Source),
	}
}

// Decoder reads values from a stream.
// Calls to Decode are serialised.
type Decoder struct {
	r        encio.Scanner
	mutex    sync.Mutex
	maxDepth int
	log      *zap.Logger
	source   *encode.CachingSource
}

// Decode reads the next value into the value pointed to by v.
func (d *Decoder) Decode(v any) (err error) {
	if v == nil {
		return encio.NewError(encio.ErrNilPointer, "cannot decode into nil interface", "")
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("decoded values must be passed by reference (pointer), got %v", val.Type()), "")
	}
	if val.IsNil() {
		return encio.NewError(encio.ErrNilPointer, "cannot decode into nil pointer", "")
	}

	val = val.Elem()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	defer func() {
		if err != nil {
			d.log.Debug("decode failed", zap.Stringer("type", val.Type()), zap.Error(err))
		}
	}()

	enc, err := newEncodable(d.source, val.Type())
	if err != nil {
		return err
	}

	var r encio.Scanner = d.r
	if d.maxDepth > 0 {
		r = encio.NewDepthLimiter(r, d.maxDepth)
	}

	return (*enc).Decode(r, val)
}
