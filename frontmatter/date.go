package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// dateLayouts are the accepted spellings of a front matter date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a front matter date. It keeps the text exactly as written so it can be
// echoed back, along with the parsed time.
type Date struct {
	Raw  string
	Time time.Time
}

// ParseDate parses s using the accepted date layouts.
func ParseDate(s string) (Date, error) {
	var d Date
	err := d.UnmarshalText([]byte(s))
	return d, err
}

// String returns the date as written in the source.
func (d Date) String() string {
	return d.Raw
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d.Raw == "" && d.Time.IsZero()
}

func (d Date) MarshalText() (text []byte, err error) {
	return []byte(d.Raw), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			*d = Date{Raw: s, Time: t}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// UnmarshalYAML decodes plain scalars so YAML timestamps keep their source text.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d is not a scalar", ErrInvalidDate, value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}
