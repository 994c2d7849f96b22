package encio

// NewDepthLimiter returns a Scanner reading from r that fails with ErrTooDeep once more than max lists are open.
// It tracks nesting from the framing bytes that pass through ReadByte; raw byte string contents are read with Read and are not counted.
func NewDepthLimiter(r Scanner, max int) *DepthLimiter {
	return &DepthLimiter{
		Scanner: r,
		max:     max,
	}
}

// DepthLimiter limits the nesting depth of decoded values.
type DepthLimiter struct {
	Scanner
	max   int
	depth int
	inInt bool

	// undo state for UnreadByte
	lastDepth int
	lastInInt bool
}

// Depth returns the number of currently open lists.
func (d *DepthLimiter) Depth() int { return d.depth }

// ReadByte implements io.ByteReader.
func (d *DepthLimiter) ReadByte() (byte, error) {
	c, err := d.Scanner.ReadByte()
	if err != nil {
		return c, err
	}

	d.lastDepth, d.lastInInt = d.depth, d.inInt
	switch c {
	case 'l':
		if !d.inInt {
			d.depth++
			if d.depth > d.max {
				return c, ErrTooDeep
			}
		}
	case 'i':
		d.inInt = true
	case 'e':
		if d.inInt {
			d.inInt = false
		} else if d.depth > 0 {
			d.depth--
		}
	default:
		// '-', digits and ':' never change depth; anything else ends an integer.
		if d.inInt && c != '-' && (c < '0' || c > '9') {
			d.inInt = false
		}
	}
	return c, nil
}

// UnreadByte implements io.ByteScanner.
func (d *DepthLimiter) UnreadByte() error {
	if err := d.Scanner.UnreadByte(); err != nil {
		return err
	}
	d.depth, d.inInt = d.lastDepth, d.lastInInt
	return nil
}
