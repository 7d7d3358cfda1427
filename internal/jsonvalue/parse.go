package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/go-json-experiment/json/jsontext"
)

// ErrNoValue is returned by Parse when the input holds no JSON value.
var ErrNoValue = errors.New("no JSON value in input")

var decodeOptions = []jsontext.Options{
	jsontext.AllowDuplicateNames(true),
	jsontext.AllowInvalidUTF8(true),
}

// Parse decodes exactly one JSON value from data. Trailing whitespace is
// allowed; anything else after the value is an error.
func Parse(data []byte) (*Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data), decodeOptions...)
	v, err := build(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoValue
		}
		return nil, err
	}
	rest := bytes.TrimSpace(data[int(dec.InputOffset()):])
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// ParseStream yields every JSON object or array embedded in data, skipping
// bytes that do not start a decodable document. Control bytes are blanked
// first so raw newlines or NULs from a binary container do not break string
// literals that would otherwise decode.
func ParseStream(data []byte) iter.Seq[*Value] {
	return func(yield func(*Value) bool) {
		clean := Sanitize(data)
		pos := 0
		for pos < len(clean) {
			idx := bytes.IndexAny(clean[pos:], "{[")
			if idx < 0 {
				return
			}
			start := pos + idx

			dec := jsontext.NewDecoder(bytes.NewReader(clean[start:]), decodeOptions...)
			v, err := build(dec)
			if err != nil {
				pos = start + 1
				continue
			}
			if !yield(v) {
				return
			}
			end := start + int(dec.InputOffset())
			if end <= start {
				end = start + 1
			}
			pos = end
		}
	}
}

// Sanitize returns a copy of data with every byte below 0x20 replaced by a
// space.
func Sanitize(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		if b < 0x20 {
			b = ' '
		}
		out[i] = b
	}
	return out
}

func build(dec *jsontext.Decoder) (*Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return NewNull(), nil
	case 'f', 't':
		return NewBool(tok.Bool()), nil
	case '"':
		return NewString(tok.String()), nil
	case '0':
		return NewNumber(tok.String()), nil
	case '{':
		obj := &Value{Kind: Object}
		for {
			switch dec.PeekKind() {
			case '}':
				if _, err := dec.ReadToken(); err != nil {
					return nil, err
				}
				return obj, nil
			case '"':
				// A token is only valid until the next decoder call, so
				// the name is copied out before the value is read.
				tok, err := dec.ReadToken()
				if err != nil {
					return nil, err
				}
				name := tok.String()
				val, err := build(dec)
				if err != nil {
					return nil, err
				}
				obj.Members = append(obj.Members, Member{Name: name, Value: val})
			default:
				_, err := dec.ReadToken()
				if err == nil {
					err = errors.New("malformed object")
				}
				return nil, err
			}
		}
	case '[':
		arr := &Value{Kind: Array}
		for {
			switch dec.PeekKind() {
			case ']':
				if _, err := dec.ReadToken(); err != nil {
					return nil, err
				}
				return arr, nil
			case 0:
				_, err := dec.ReadToken()
				if err == nil {
					err = errors.New("malformed array")
				}
				return nil, err
			default:
				item, err := build(dec)
				if err != nil {
					return nil, err
				}
				arr.Items = append(arr.Items, item)
			}
		}
	default:
		return nil, fmt.Errorf("unexpected token kind %v", tok.Kind())
	}
}
