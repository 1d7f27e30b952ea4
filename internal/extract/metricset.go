package extract

import (
	"bytes"
	"encoding/json"
)

// MetricSet maps canonical metric names to normalized numeric-string
// values. Insertion order is preserved so serialized output is
// deterministic. At most one value is kept per name: the first successful
// match wins and later Set calls for the same name are ignored.
type MetricSet struct {
	names  []string
	values map[string]string
}

// NewMetricSet returns an empty metric set.
func NewMetricSet() *MetricSet {
	return &MetricSet{values: make(map[string]string)}
}

// Set records a value for name unless one is already present.
// It reports whether the value was recorded.
func (m *MetricSet) Set(name, value string) bool {
	if _, ok := m.values[name]; ok {
		return false
	}
	m.names = append(m.names, name)
	m.values[name] = value
	return true
}

// Has reports whether name has been resolved.
func (m *MetricSet) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Get returns the value for name.
func (m *MetricSet) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Len returns the number of resolved metrics.
func (m *MetricSet) Len() int { return len(m.names) }

// Names returns the metric names in insertion order.
func (m *MetricSet) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// MarshalJSON renders the set as a JSON object in insertion order.
func (m *MetricSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON rebuilds the set from a JSON object. Go maps do not
// preserve key order, so insertion order after a round trip follows the
// decoded token order of the input object.
func (m *MetricSet) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.values = make(map[string]string)
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		m.Set(key, val)
	}
	_, err = dec.Token() // closing brace
	return err
}
