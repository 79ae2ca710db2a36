package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prettyJSON re-encodes a JSON document with a 2-space indent. strings
// are decoded and written back as UTF-8 (only what JSON requires is
// escaped), object keys keep their order and numbers keep their spelling.
func prettyJSON(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var out strings.Builder
	err := writeJSONValue(dec, &out, 0)
	if err != nil {
		return "", err
	}
	_, err = dec.Token()
	if err != io.EOF {
		return "", errors.New("invalid JSON: trailing data after top-level value")
	}
	return out.String(), nil
}

func writeJSONString(out *strings.Builder, s string) error {
	var buff bytes.Buffer
	encoder := json.NewEncoder(&buff)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(s)
	if err != nil {
		return err
	}
	out.WriteString(strings.TrimRight(buff.String(), "\n"))
	return nil
}

func writeJSONIndent(out *strings.Builder, depth int) {
	out.WriteString("\n")
	out.WriteString(strings.Repeat("  ", depth))
}

func writeJSONValue(dec *json.Decoder, out *strings.Builder, depth int) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		closing := json.Delim('}')
		if v == '[' {
			closing = ']'
		}
		out.WriteString(string(v))
		if !dec.More() {
			_, err = dec.Token()
			out.WriteString(string(closing))
			return err
		}
		first := true
		for dec.More() {
			if !first {
				out.WriteString(",")
			}
			first = false
			writeJSONIndent(out, depth+1)

			if v == '{' {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("invalid JSON: object key %v", keyTok)
				}
				err = writeJSONString(out, key)
				if err != nil {
					return err
				}
				out.WriteString(": ")
			}
			err = writeJSONValue(dec, out, depth+1)
			if err != nil {
				return err
			}
		}
		_, err = dec.Token()
		if err != nil {
			return err
		}
		writeJSONIndent(out, depth)
		out.WriteString(string(closing))
	case string:
		return writeJSONString(out, v)
	case json.Number:
		out.WriteString(v.String())
	case bool:
		fmt.Fprintf(out, "%t", v)
	case nil:
		out.WriteString("null")
	}
	return nil
}
