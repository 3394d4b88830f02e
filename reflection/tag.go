package reflection

import (
	"strings"
)

// TagName is the struct tag key the resolver reads.
const TagName = "jormap"

// Tag is the subset of a jormap struct tag that affects type resolution.
// Column options such as size or notnull are accepted and ignored; columns
// are described by the mapping document.
type Tag struct {
	Ignore bool   // "-"
	Type   string // type:<scalar type name>
}

// ParseTag parses a "jormap" tag. Options are separated by spaces, commas or
// semicolons; values follow a colon.
func ParseTag(tagStr string) *Tag {
	tag := &Tag{}
	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "" {
		return tag
	}
	if tagStr == "-" {
		tag.Ignore = true
		return tag
	}

	parts := strings.FieldsFunc(tagStr, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})
	for _, part := range parts {
		key, val, _ := strings.Cut(part, ":")
		if strings.EqualFold(strings.TrimSpace(key), "type") {
			tag.Type = strings.TrimSpace(val)
		}
	}
	return tag
}
