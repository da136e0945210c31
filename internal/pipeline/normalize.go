package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harborline/ordersync/internal/app/ports"
)

// instantFormat renders ISO-8601 UTC with millisecond precision, matching the
// wire format the warehouse ingestion API expects.
const instantFormat = "2006-01-02T15:04:05.000Z"

// maxInstantMillis bounds representable instants; anything outside is treated
// as an invalid date and normalized to null.
const maxInstantMillis = int64(8.64e15)

// maxInstantSeconds is the whole-second bound; seconds values beyond it would
// overflow int64 when scaled to milliseconds, so they are rejected first.
const maxInstantSeconds = maxInstantMillis / 1000

// Calendar years reachable within maxInstantMillis of the epoch. Instants
// beyond these wrap UnixMilli, so the year is checked before converting.
const (
	minInstantYear = -271821
	maxInstantYear = 275760
)

// TimeConvertible is the shape of source values that expose a zero-argument
// conversion to an instant.
type TimeConvertible interface {
	Time() time.Time
}

type timestampKind int

const (
	timestampNative timestampKind = iota
	timestampSecondsPair
	timestampEpoch
)

// TimestampInput is the tagged classification of a timestamp-like value.
type TimestampInput struct {
	kind    timestampKind
	native  time.Time
	seconds int64
	nanos   int32
	epoch   any
}

// ClassifyTimestamp recognizes the non-epoch timestamp shapes: native instants
// and seconds/nanos pairs. Epoch strings and numbers are classified separately
// by CoerceInstant, never during bulk normalization.
func ClassifyTimestamp(value any) (TimestampInput, bool) {
	switch v := value.(type) {
	case time.Time:
		return TimestampInput{kind: timestampNative, native: v}, true
	case *time.Time:
		if v == nil {
			return TimestampInput{}, false
		}
		return TimestampInput{kind: timestampNative, native: *v}, true
	case ports.Timestamp:
		return TimestampInput{kind: timestampSecondsPair, seconds: v.Seconds, nanos: v.Nanos}, true
	case *ports.Timestamp:
		if v == nil {
			return TimestampInput{}, false
		}
		return TimestampInput{kind: timestampSecondsPair, seconds: v.Seconds, nanos: v.Nanos}, true
	case TimeConvertible:
		return TimestampInput{kind: timestampNative, native: v.Time()}, true
	default:
		return TimestampInput{}, false
	}
}

// Instant resolves the classified value to a concrete instant. The second
// return is false when the value does not represent a valid date.
func (t TimestampInput) Instant() (time.Time, bool) {
	switch t.kind {
	case timestampNative:
		return t.native, instantInRange(t.native)
	case timestampSecondsPair:
		if t.seconds > maxInstantSeconds || t.seconds < -maxInstantSeconds {
			return time.Time{}, false
		}
		millis := t.seconds*1000 + int64(t.nanos)/1_000_000
		if millis > maxInstantMillis || millis < -maxInstantMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(millis).UTC(), true
	case timestampEpoch:
		return parseEpoch(t.epoch)
	default:
		return time.Time{}, false
	}
}

func instantInRange(t time.Time) bool {
	if year := t.Year(); year < minInstantYear || year > maxInstantYear {
		return false
	}
	millis := t.UnixMilli()
	return millis <= maxInstantMillis && millis >= -maxInstantMillis
}

// FormatInstant renders an instant in the canonical warehouse wire format.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(instantFormat)
}

// Normalize converts an arbitrary document field value into a JSON-safe value.
// It is total: malformed input degrades to nil or a string coercion, never an
// error. Strings and numbers are passed through untouched; speculative epoch
// parsing is deliberately kept out of the bulk path.
func Normalize(value any) any {
	if value == nil {
		return nil
	}
	if ts, ok := ClassifyTimestamp(value); ok {
		instant, valid := ts.Instant()
		if !valid {
			return nil
		}
		return FormatInstant(instant)
	}
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case bool, string, int, int32, int64, float32, float64, json.Number:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// CoerceInstant additionally accepts epoch strings and numbers, on top of the
// shapes ClassifyTimestamp recognizes. Used by the order-read surface only.
func CoerceInstant(value any) (string, bool) {
	if ts, ok := ClassifyTimestamp(value); ok {
		instant, valid := ts.Instant()
		if !valid {
			return "", false
		}
		return FormatInstant(instant), true
	}
	switch value.(type) {
	case string, int, int32, int64, float64, json.Number:
		instant, ok := parseEpoch(value)
		if !ok {
			return "", false
		}
		return FormatInstant(instant), true
	default:
		return "", false
	}
}

var epochLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseEpoch(value any) (time.Time, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range epochLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, instantInRange(t)
			}
		}
		if millis, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return epochMillis(millis)
		}
		return time.Time{}, false
	case int:
		return epochMillis(int64(v))
	case int32:
		return epochMillis(int64(v))
	case int64:
		return epochMillis(v)
	case float64:
		return epochMillis(int64(v))
	case json.Number:
		millis, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return epochMillis(millis)
	default:
		return time.Time{}, false
	}
}

func epochMillis(millis int64) (time.Time, bool) {
	if millis > maxInstantMillis || millis < -maxInstantMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}
