package textcodec

import "strings"

// Codec joins and splits list-valued columns stored as a single text blob.
type Codec struct {
	sep     string
	aliases []string
}

var (
	// Semicolon is used for category-style lists (aliases, affected parts, controls).
	// Full-width "；" and "、" are accepted as separators on decode.
	Semicolon = Codec{sep: ";", aliases: []string{"；", "、"}}

	// Comma is used for simple path lists such as image URLs.
	Comma = Codec{sep: ","}
)

// Encode trims every token, drops empty ones and joins the rest with the
// canonical separator.
func (c Codec) Encode(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, c.sep)
}

func (c Codec) Decode(blob string) []string {
	for _, alias := range c.aliases {
		blob = strings.ReplaceAll(blob, alias, c.sep)
	}

	tokens := []string{}
	for _, part := range strings.Split(blob, c.sep) {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// EncodePtr is Encode for nullable columns: an empty list maps to nil.
func (c Codec) EncodePtr(tokens []string) *string {
	s := c.Encode(tokens)
	if s == "" {
		return nil
	}
	return &s
}

func (c Codec) DecodePtr(blob *string) []string {
	if blob == nil {
		return []string{}
	}
	return c.Decode(*blob)
}
