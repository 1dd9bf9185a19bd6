// Package orders loads the static order book and renders order status text.
package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StatusInTransit  = "in_transit"
	StatusDelivered  = "delivered"
	StatusProcessing = "processing"
)

var ErrMalformed = errors.New("malformed orders file")

// Order is an order record keyed by its id. Payload is not validated: absent
// fields mean "unknown". Raw holds the compacted JSON object as it appeared
// in the source file, when it came from JSON.
type Order struct {
	ID      string
	Payload map[string]any
	Raw     json.RawMessage
}

// Load reads a JSON object mapping order ids to arbitrary objects. Files
// ending in .yaml or .yml are decoded as a YAML mapping.
func Load(path string) (map[string]Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders %s: %w", path, err)
	}

	var out map[string]Order
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err = decodeYAML(data)
	default:
		out, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return out, nil
}

func decodeYAML(data []byte) (map[string]Order, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]Order, len(raw))
	for id, payload := range raw {
		if payload == nil {
			payload = map[string]any{}
		}
		out[id] = Order{ID: id, Payload: payload}
	}
	return out, nil
}

func decodeJSON(data []byte) (map[string]Order, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}

	out := make(map[string]Order, len(raw))
	for id, msg := range raw {
		var payload map[string]any
		pd := json.NewDecoder(bytes.NewReader(msg))
		pd.UseNumber()
		if err := pd.Decode(&payload); err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
		o := Order{ID: id, Payload: payload}
		if payload == nil {
			o.Payload = map[string]any{}
		} else {
			var buf bytes.Buffer
			if err := json.Compact(&buf, msg); err != nil {
				return nil, fmt.Errorf("order %s: %w", id, err)
			}
			o.Raw = buf.Bytes()
		}
		out[id] = o
	}
	return out, nil
}

// Get looks an order up by id.
func Get(orders map[string]Order, id string) (Order, bool) {
	o, ok := orders[id]
	return o, ok
}

// field returns the printable value of key and whether it is set to a
// non-empty value.
func (o Order) field(key string) (string, bool) {
	v, ok := o.Payload[key]
	if !ok || v == nil {
		return "", false
	}
	s := text(v)
	return s, s != ""
}

func text(v any) string {
	if v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Status returns the raw status value, or "" when absent.
func (o Order) Status() string {
	s, _ := o.field("status")
	return s
}

// FormatStatus renders the short, human-readable status line for an order.
func FormatStatus(o Order) string {
	switch o.Status() {
	case StatusInTransit:
		parts := []string{fmt.Sprintf("Заказ %s в пути.", o.ID)}
		if carrier, ok := o.field("carrier"); ok {
			parts = append(parts, fmt.Sprintf("Служба доставки: %s.", carrier))
		}
		if eta, ok := o.field("eta_days"); ok {
			parts = append(parts, fmt.Sprintf("Ориентировочный срок доставки: %s дн.", eta))
		}
		return strings.Join(parts, " ")

	case StatusDelivered:
		if at, ok := o.field("delivered_at"); ok {
			return fmt.Sprintf("Заказ %s доставлен %s.", o.ID, at)
		}
		return fmt.Sprintf("Заказ %s уже доставлен.", o.ID)

	case StatusProcessing:
		note := "Заказ в обработке."
		if v, ok := o.Payload["note"]; ok {
			note = text(v)
		}
		return fmt.Sprintf("Заказ %s в обработке. %s", o.ID, note)
	}

	status := o.Status()
	if status == "" {
		status = "неизвестен"
	}
	return fmt.Sprintf("Заказ %s: статус %s.", o.ID, status)
}

const contextHeader = "Информация о заказе клиента:"

// BuildContext renders the status line plus the raw payload as grounding
// for follow-up questions about the order.
func BuildContext(o Order) string {
	return fmt.Sprintf("%s\n%s\n\nСтруктура заказа (JSON):\n%s", contextHeader, FormatStatus(o), o.payloadJSON())
}

func (o Order) payloadJSON() string {
	if len(o.Raw) > 0 {
		return string(o.Raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(o.Payload); err != nil {
		return fmt.Sprintf("%v", o.Payload)
	}
	return strings.TrimRight(buf.String(), "\n")
}
