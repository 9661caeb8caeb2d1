// Package generate produces synthetic JSON records from a list of typed
// fields.
package generate

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// FieldType selects how a field's values are generated.
type FieldType string

const (
	TypeNumber  FieldType = "number"
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeUUID    FieldType = "uuid"
	TypeName    FieldType = "name"
	TypeEmail   FieldType = "email"
)

// FieldTypes lists the supported types in display order.
var FieldTypes = []FieldType{TypeNumber, TypeString, TypeBoolean, TypeUUID, TypeName, TypeEmail}

// MessageNoFields is returned when no field has a name.
const MessageNoFields = "Add at least one field to generate JSON"

var (
	firstNames = []string{"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Ivy", "Jack"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	domains    = []string{"example.com", "test.org", "mail.net", "dev.io"}
)

// ParseFieldType validates a type name.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FieldTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// Field is one column of the generated records.
type Field struct {
	Name string    `json:"name" validate:"required"`
	Type FieldType `json:"type" validate:"required"`
}

// ParseField reads "name:type". The type defaults to string.
func ParseField(s string) (Field, error) {
	name, typ, found := strings.Cut(s, ":")
	f := Field{Name: strings.TrimSpace(name), Type: TypeString}
	if f.Name == "" {
		return Field{}, fmt.Errorf("field %q has no name", s)
	}
	if found {
		t, err := ParseFieldType(typ)
		if err != nil {
			return Field{}, err
		}
		f.Type = t
	}
	return f, nil
}

// Generator produces random records. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator drawing from src. A nil src seeds from the clock.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rnd: rand.New(src)}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.NewSource(seed))
}

// Generate returns an array of count objects with one member per named field,
// in field order. Fields with a blank name are skipped and count is at least 1.
func (g *Generator) Generate(fields []Field, count int) (*jsonvalue.Value, error) {
	fields = named(fields)
	if len(fields) == 0 {
		return nil, &jsonease.Diagnosis{Kind: jsonease.KindShape, Message: MessageNoFields}
	}
	if count < 1 {
		count = 1
	}

	items := make([]*jsonvalue.Value, 0, count)
	for i := 0; i < count; i++ {
		obj := jsonvalue.NewObject()
		for _, f := range fields {
			obj.Set(f.Name, g.value(f.Type))
		}
		items = append(items, jsonvalue.ObjectValue(obj))
	}
	return jsonvalue.Array(items...), nil
}

func (g *Generator) value(t FieldType) *jsonvalue.Value {
	switch t {
	case TypeNumber:
		return jsonvalue.Int(int64(g.rnd.Intn(1000)))
	case TypeString:
		var b strings.Builder
		for i := 0; i < 8; i++ {
			b.WriteString(strconv.FormatInt(int64(g.rnd.Intn(36)), 36))
		}
		return jsonvalue.String(b.String())
	case TypeBoolean:
		return jsonvalue.Bool(g.rnd.Float64() > 0.5)
	case TypeUUID:
		id, err := uuid.NewRandomFromReader(g.rnd)
		if err != nil {
			return jsonvalue.Null()
		}
		return jsonvalue.String(id.String())
	case TypeName:
		return jsonvalue.String(g.pick(firstNames) + " " + g.pick(lastNames))
	case TypeEmail:
		return jsonvalue.String(fmt.Sprintf("%s%d@%s", strings.ToLower(g.pick(firstNames)), g.rnd.Intn(100), g.pick(domains)))
	default:
		return jsonvalue.Null()
	}
}

func (g *Generator) pick(list []string) string {
	return list[g.rnd.Intn(len(list))]
}

func named(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name != "" {
			out = append(out, f)
		}
	}
	return out
}
