package hook

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Normalize turns a raw configuration value into an ordered sequence of
// jobs. A single descriptor becomes a one-element sequence and nil becomes
// an empty one. Required fields are not checked here.
//
// Generic trees (as produced by YAML or JSON decoding) are decoded with
// unknown keys ignored and scalars weakly converted to strings. A
// descriptor that cannot be decoded still yields a job; its error is kept
// in Job.Err and surfaces when the owning hook runs. Only nil elements are
// rejected here.
func Normalize(raw interface{}) ([]Job, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case Job:
		return []Job{v}, nil
	case *Job:
		if v == nil {
			return nil, nil
		}
		return []Job{*v}, nil
	case []Job:
		out := make([]Job, len(v))
		copy(out, v)
		return out, nil
	case []*Job:
		out := make([]Job, 0, len(v))
		for i, j := range v {
			if j == nil {
				return nil, &DecodeError{Index: i, Cause: fmt.Errorf("descriptor is nil")}
			}
			out = append(out, *j)
		}
		return out, nil
	case []interface{}:
		out := make([]Job, 0, len(v))
		for i, item := range v {
			if item == nil {
				return nil, &DecodeError{Index: i, Cause: fmt.Errorf("descriptor is empty")}
			}
			out = append(out, decodeJob(item, i))
		}
		return out, nil
	case []map[string]interface{}:
		out := make([]Job, 0, len(v))
		for i, item := range v {
			out = append(out, decodeJob(item, i))
		}
		return out, nil
	default:
		return []Job{decodeJob(v, 0)}, nil
	}
}

// decodeJob decodes one generic descriptor. Failures are recorded on the
// returned job rather than returned.
func decodeJob(item interface{}, index int) Job {
	var j Job

	kind := reflect.Indirect(reflect.ValueOf(item)).Kind()
	if kind != reflect.Map && kind != reflect.Struct {
		// Scalars and lists carry no fields, so the job fails on its
		// first missing field when run.
		return j
	}
	m, isMap := item.(map[string]interface{})
	if isMap {
		item = normalizeFields(m)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &j,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err == nil {
		err = dec.Decode(item)
	}
	if err != nil {
		return Job{Err: &DecodeError{Index: index, Cause: err}}
	}

	if v, ok := m["name"]; isMap && ok && v == nil {
		j.Name = String("null")
	}
	return j
}

// normalizeFields returns a copy of m with the event value coerced the way
// a truthiness fallback would treat it: falsy values are dropped so the
// default event applies, and other scalars become their text.
func normalizeFields(m map[string]interface{}) map[string]interface{} {
	v, ok := m["event"]
	if !ok {
		return m
	}
	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		out[k] = val
	}
	if falsy(v) {
		delete(out, "event")
		return out
	}
	switch t := v.(type) {
	case bool:
		out["event"] = strconv.FormatBool(t)
	case int:
		out["event"] = strconv.Itoa(t)
	case int64:
		out["event"] = strconv.FormatInt(t, 10)
	case uint64:
		out["event"] = strconv.FormatUint(t, 10)
	case float64:
		out["event"] = strconv.FormatFloat(t, 'f', -1, 64)
	}
	return out
}

func falsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int:
		return t == 0
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0 || math.IsNaN(t)
	}
	return false
}
