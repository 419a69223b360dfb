package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind tags how a backend field was encoded on the wire
type PayloadKind int

const (
	// PayloadAbsent means the field was missing, null, or neither an object nor a string
	PayloadAbsent PayloadKind = iota
	// PayloadObject means the field was a ready-made JSON object
	PayloadObject
	// PayloadText means the field was a string expected to contain JSON
	PayloadText
)

// Payload is a backend field that may be a structured record or JSON text.
// It is only ever consumed through Normalize.
type Payload struct {
	Kind PayloadKind
	Raw  json.RawMessage
	Text string
}

// ObjectPayload builds a structured payload from any JSON-marshalable record
func ObjectPayload(v any) (Payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return Payload{Kind: PayloadObject, Raw: b}, nil
}

// TextPayload builds a payload carrying JSON-encoded text
func TextPayload(s string) Payload {
	return Payload{Kind: PayloadText, Text: s}
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Payload) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	*p = Payload{}
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		p.Kind = PayloadObject
		p.Raw = append(json.RawMessage(nil), trimmed...)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		p.Kind = PayloadText
		p.Text = s
	default:
		// null, numbers, arrays and booleans carry no usable analysis
		p.Kind = PayloadAbsent
		p.Raw = append(json.RawMessage(nil), trimmed...)
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadObject:
		return p.Raw, nil
	case PayloadText:
		return json.Marshal(p.Text)
	default:
		if len(p.Raw) > 0 {
			return p.Raw, nil
		}
		return []byte("null"), nil
	}
}

// URLPayload is one entry of the backend's url_analysis mapping
type URLPayload struct {
	URL     string
	Payload Payload
}

// URLPayloadSet is the url_analysis mapping with the backend's key order preserved
type URLPayloadSet []URLPayload

// UnmarshalJSON implements json.Unmarshaler
func (s *URLPayloadSet) UnmarshalJSON(b []byte) error {
	*s = nil
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		// a url_analysis that is not an object carries no entries
		return nil
	}
	return decodeOrderedObject(b, func(key string, raw json.RawMessage) error {
		var p Payload
		if err := p.UnmarshalJSON(raw); err != nil {
			return err
		}
		s.put(key, p)
		return nil
	})
}

// MarshalJSON implements json.Marshaler
func (s URLPayloadSet) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(s), func(i int) (string, any) {
		return s[i].URL, s[i].Payload
	})
}

func (s *URLPayloadSet) put(url string, p Payload) {
	for i := range *s {
		if (*s)[i].URL == url {
			(*s)[i].Payload = p
			return
		}
	}
	*s = append(*s, URLPayload{URL: url, Payload: p})
}

// URLResults is the normalized url_analysis mapping in backend order
type URLResults []URLResult

// Get returns the analysis for a URL
func (r URLResults) Get(url string) (URLAnalysis, bool) {
	for _, entry := range r {
		if entry.URL == url {
			return entry.Analysis, true
		}
	}
	return URLAnalysis{}, false
}

// UnmarshalJSON implements json.Unmarshaler
func (r *URLResults) UnmarshalJSON(b []byte) error {
	*r = nil
	return decodeOrderedObject(b, func(key string, raw json.RawMessage) error {
		var a URLAnalysis
		if err := json.Unmarshal(raw, &a); err != nil {
			return err
		}
		*r = append(*r, URLResult{URL: key, Analysis: a})
		return nil
	})
}

// MarshalJSON implements json.Marshaler
func (r URLResults) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(r), func(i int) (string, any) {
		return r[i].URL, r[i].Analysis
	})
}

// decodeOrderedObject walks a JSON object and calls fn for every member in document order.
// A null document is treated as an empty object.
func decodeOrderedObject(b []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func encodeOrderedObject(n int, member func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, value := member(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
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
