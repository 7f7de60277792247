package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Semesters is the per-semester list of a course. It is encoded as a JSON
// object keyed by semester, keeping the slice order.
type Semesters []*SemesterAggregate

// MarshalJSON writes the semesters as an ordered JSON object.
func (s Semesters) MarshalJSON() ([]byte, error) {
	return encodeOrdered(len(s), func(i int) (string, interface{}) {
		return s[i].Semester, s[i]
	})
}

// UnmarshalJSON reads an ordered JSON object of semesters.
func (s *Semesters) UnmarshalJSON(data []byte) error {
	out := make(Semesters, 0)
	err := decodeOrdered(data, func(key string, raw json.RawMessage) error {
		sem := &SemesterAggregate{}
		if err := json.Unmarshal(raw, sem); err != nil {
			return fmt.Errorf("semester %s: %w", key, err)
		}
		sem.Semester = key
		out = append(out, sem)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes the snapshot as a JSON object keyed by FAS id.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return encodeOrdered(len(s.Courses), func(i int) (string, interface{}) {
		return s.Courses[i].FasID, s.Courses[i]
	})
}

// UnmarshalJSON reads a snapshot, keeping the course order of the document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	courses := make([]*CourseAggregate, 0)
	err := decodeOrdered(data, func(key string, raw json.RawMessage) error {
		c := &CourseAggregate{}
		if err := json.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("course %s: %w", key, err)
		}
		c.FasID = key
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return err
	}
	s.Courses = courses
	return nil
}

// encodeOrdered writes n key/value pairs as a JSON object in index order.
func encodeOrdered(n int, pair func(i int) (string, interface{})) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := pair(i)

		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		v, err := marshalNoEscape(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape is json.Marshal without HTML escaping, so titles such as
// "Science & Society" stay readable in the snapshot.
func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// decodeOrdered calls fn for each member of a JSON object, in document order.
func decodeOrdered(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
