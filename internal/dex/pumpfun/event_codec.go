// =============================
// File: internal/dex/pumpfun/event_codec.go
// =============================
package pumpfun

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
)

// DiscriminatorSize is the length of the tag prefixing every event payload.
const DiscriminatorSize = 8

// Discriminator is the 8-byte tag identifying an event layout.
type Discriminator [DiscriminatorSize]byte

// Event discriminators
var (
	CreateEventDiscriminator    = Discriminator{27, 114, 169, 77, 222, 235, 99, 118}
	TradeEventDiscriminator     = Discriminator{189, 219, 127, 211, 78, 230, 97, 238}
	CompleteEventDiscriminator  = Discriminator{95, 114, 97, 156, 212, 46, 152, 8}
	SetParamsEventDiscriminator = Discriminator{223, 195, 159, 246, 62, 48, 143, 131}
)

// unhandledDiscriminators are emitted by the program but not decoded.
var unhandledDiscriminators = [...]Discriminator{
	{64, 69, 192, 104, 29, 30, 25, 107},
	{245, 59, 70, 34, 75, 185, 109, 92},
	{147, 250, 108, 120, 247, 29, 67, 222},
	{79, 172, 246, 49, 205, 91, 206, 232},
	{146, 159, 189, 172, 146, 88, 56, 244},
	{122, 2, 127, 1, 14, 191, 12, 175},
	{189, 233, 93, 185, 92, 148, 234, 148},
	{97, 97, 215, 144, 93, 146, 22, 124},
	{134, 36, 13, 72, 232, 101, 130, 216},
	{237, 52, 123, 37, 245, 251, 72, 210},
	{142, 203, 6, 32, 127, 105, 191, 162},
	{197, 122, 167, 124, 116, 81, 91, 255},
	{182, 195, 137, 42, 35, 206, 207, 247},
}

var (
	// ErrPayloadTooShort is returned for payloads that cannot hold a discriminator.
	ErrPayloadTooShort = errors.New("data too short to contain discriminator")

	// ErrInvalidBase64 is returned when a program data line is not valid base64.
	ErrInvalidBase64 = errors.New("invalid base64 payload")

	// ErrInvalidBool is returned for a bool field encoded as anything but 0 or 1.
	ErrInvalidBool = errors.New("invalid bool byte")

	// ErrInvalidUTF8 is returned for a string field that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 string")
)

// DecodeError reports a payload whose discriminator matched a modeled event
// but whose body could not be decoded.
type DecodeError struct {
	Event EventKind
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Event, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnhandledDiscriminators returns a copy of the recognized-but-unmodeled set.
func UnhandledDiscriminators() []Discriminator {
	out := make([]Discriminator, len(unhandledDiscriminators))
	copy(out, unhandledDiscriminators[:])
	return out
}

func isUnhandled(d Discriminator) bool {
	for _, u := range unhandledDiscriminators {
		if u == d {
			return true
		}
	}
	return false
}

// DecodeEvent classifies data by its discriminator and decodes modeled events.
// Bytes following a modeled event's last field are ignored.
func DecodeEvent(signature string, data []byte) (Event, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooShort, len(data))
	}

	var disc Discriminator
	copy(disc[:], data[:DiscriminatorSize])
	body := data[DiscriminatorSize:]

	switch disc {
	case CreateEventDiscriminator:
		return decodeBody[CreateEvent](KindCreate, body)
	case TradeEventDiscriminator:
		return decodeBody[TradeEvent](KindTrade, body)
	case CompleteEventDiscriminator:
		return decodeBody[CompleteEvent](KindComplete, body)
	case SetParamsEventDiscriminator:
		return decodeBody[SetParamsEvent](KindSetParams, body)
	}

	raw := bytes.Clone(data)
	if isUnhandled(disc) {
		return UnhandledEvent{Signature: signature, Data: raw}, nil
	}
	return UnknownEvent{Signature: signature, Data: raw}, nil
}

func decodeBody[T Event](kind EventKind, body []byte) (Event, error) {
	var ev T
	if err := decodeFields(bin.NewBorshDecoder(body), reflect.ValueOf(&ev).Elem()); err != nil {
		return nil, &DecodeError{Event: kind, Err: err}
	}
	return ev, nil
}

// decodeFields decodes a flat borsh struct field by field. Bools must be
// 0 or 1 and strings valid UTF-8; the plain borsh decoder accepts both.
func decodeFields(dec *bin.Decoder, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rv.Field(i)
		name := rt.Field(i).Name

		switch field.Kind() {
		case reflect.Bool:
			b, err := dec.ReadByte()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if b > 1 {
				return fmt.Errorf("%s: %w %d", name, ErrInvalidBool, b)
			}
			field.SetBool(b == 1)
		case reflect.String:
			str, err := dec.ReadString()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if !utf8.ValidString(str) {
				return fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
			}
			field.SetString(str)
		default:
			if err := dec.Decode(field.Addr().Interface()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// ParseEvent base64-decodes a program data payload and decodes it.
func ParseEvent(signature, encoded string) (Event, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return DecodeEvent(signature, data)
}

// ProgramDataPayload returns the base64 part of a "Program data: " log line.
func ProgramDataPayload(line string) (string, bool) {
	return strings.CutPrefix(line, ProgramDataPrefix)
}

// EncodeEvent serializes a modeled event with its discriminator.
// Catch-all events are returned as their raw bytes.
func EncodeEvent(ev Event) ([]byte, error) {
	var disc Discriminator
	switch e := ev.(type) {
	case CreateEvent:
		disc = CreateEventDiscriminator
	case TradeEvent:
		disc = TradeEventDiscriminator
	case CompleteEvent:
		disc = CompleteEventDiscriminator
	case SetParamsEvent:
		disc = SetParamsEventDiscriminator
	case UnhandledEvent:
		return bytes.Clone(e.Data), nil
	case UnknownEvent:
		return bytes.Clone(e.Data), nil
	default:
		return nil, fmt.Errorf("unsupported event type %T", ev)
	}

	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(ev); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ev.Kind(), err)
	}
	return buf.Bytes(), nil
}

// EncodeEventBase64 returns the "Program data: " log line for ev.
func EncodeEventBase64(ev Event) (string, error) {
	data, err := EncodeEvent(ev)
	if err != nil {
		return "", err
	}
	return ProgramDataPrefix + base64.StdEncoding.EncodeToString(data), nil
}
