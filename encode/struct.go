package encode

import (
	"fmt"
	"io"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/stewi1014/bencs/encio"
)

// StructTag is the boolean struct tag that when set to false on an exported field, excludes it from encoding.
// strconv.ParseBool() is used for parsing the tag value; it accepts 1, t, T, TRUE, true, True, 0, f, F, FALSE, false, False.
// Unexported fields are never encoded.
const StructTag = "bencs"

func structFields(ty reflect.Type) []int {
	fields := make([]int, 0, ty.NumField())
	for i := 0; i < ty.NumField(); i++ {
		field := ty.Field(i)
		if !field.IsExported() {
			continue
		}

		if tagStr, tagged := field.Tag.Lookup(StructTag); tagged {
			include, err := strconv.ParseBool(tagStr)
			if err != nil {
				encio.Logger().Warn("ignoring struct tag",
					zap.String("type", ty.String()),
					zap.String("field", field.Name),
					zap.Error(err),
				)
			} else if !include {
				continue
			}
		}

		fields = append(fields, i)
	}
	return fields
}

// NewTuple returns a new struct Encodable.
func NewTuple(ty reflect.Type, src Source) *Tuple {
	if ty.Kind() != reflect.Struct {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a struct", ty), ""))
	}

	e := &Tuple{
		ty:            ty,
		missingPrefix: encio.ErrMissingListPrefix,
		missingSuffix: encio.ErrMissingListSuffix,
	}

	for _, i := range structFields(ty) {
		e.fields = append(e.fields, tupleField{
			index: i,
			enc:   src.NewEncodable(ty.Field(i).Type, nil),
		})
	}

	if len(e.fields) == 2 {
		e.missingPrefix = encio.ErrMissingPairPrefix
		e.missingSuffix = encio.ErrMissingPairSuffix
	}

	return e
}

// Tuple is an Encodable for structs.
// A struct is a list of its exported fields in declaration order, with no field names;
// so a struct with two fields has the same encoding as a Pair, and fields can only be added or removed at the end
// by agreement between both ends.
type Tuple struct {
	ty     reflect.Type
	fields []tupleField

	missingPrefix, missingSuffix error
}

type tupleField struct {
	index int
	enc   *Encodable
}

// Type implements Encodable.
func (e *Tuple) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Tuple) Encode(w io.Writer, v reflect.Value) error {
	if err := encio.Write(listPrefix, w); err != nil {
		return err
	}

	for _, f := range e.fields {
		if err := (*f.enc).Encode(w, v.Field(f.index)); err != nil {
			return err
		}
	}

	return encio.Write(listSuffix, w)
}

// Decode implements Encodable.
// Every field is read; there is no check for the end of the list until all are decoded.
func (e *Tuple) Decode(r encio.Scanner, v reflect.Value) error {
	if err := encio.ExpectPrefix(r, 'l', e.missingPrefix); err != nil {
		return err
	}

	for _, f := range e.fields {
		if err := (*f.enc).Decode(r, v.Field(f.index)); err != nil {
			return started(err)
		}
	}

	return encio.ExpectSuffix(r, 'e', e.missingSuffix)
}
