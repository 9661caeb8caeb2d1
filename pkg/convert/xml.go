package convert

import (
	"strings"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// XMLHeader prefixes every document produced by ToXML.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// ToXML maps v onto elements: objects become an element per key, array
// elements become <item> elements in place of the array, and scalars become
// text content. Names and text are written as is, without escaping.
func ToXML(v *jsonvalue.Value) (string, error) {
	var b strings.Builder
	b.WriteString(XMLHeader)
	writeXML(&b, v, "root")
	return b.String(), nil
}

func writeXML(b *strings.Builder, v *jsonvalue.Value, name string) {
	switch v.Kind() {
	case jsonvalue.KindArray:
		for _, item := range v.Items() {
			writeXML(b, item, "item")
		}
	case jsonvalue.KindObject:
		b.WriteString("<" + name + ">")
		for _, m := range v.Object().Members() {
			writeXML(b, m.Value, m.Key)
		}
		b.WriteString("</" + name + ">")
	default:
		b.WriteString("<" + name + ">" + v.Text() + "</" + name + ">")
	}
}
