package text

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Metrics is the parsed content of a BMFont text metrics file.
type Metrics struct {
	Face       string
	Size       int
	LineHeight int
	Base       int
	ScaleW     int
	ScaleH     int
	Chars      []CharDef
	Kernings   []KerningDef
}

// CharDef is one glyph rectangle on the sheet, in pixels.
type CharDef struct {
	ID       rune
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
}

// KerningDef adjusts the advance between an ordered pair of characters.
type KerningDef struct {
	First, Second rune
	Amount        int
}

var errMissingValue = errors.New("missing value")

// ParseBMFont reads BMFont text metrics:
//
//	info face="Go" size=16
//	common lineHeight=19 base=15 scaleW=256 scaleH=128 pages=1
//	char id=65 x=10 y=0 width=9 height=11 xoffset=0 yoffset=4 xadvance=9
//	kerning first=65 second=86 amount=-1
//
// Unknown tags (page, chars, kernings) and unknown keys are ignored.
func ParseBMFont(r io.Reader) (*Metrics, error) {
	m := &Metrics{}
	haveCommon := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		tag, attrs := splitLine(sc.Text())
		if tag == "" {
			continue
		}

		var err error
		switch tag {
		case "info":
			m.Face = attrs["face"]
			m.Size, err = optionalInt(attrs, "size")
		case "common":
			haveCommon = true
			err = readInts(attrs, []intField{
				{"lineHeight", &m.LineHeight},
				{"base", &m.Base},
				{"scaleW", &m.ScaleW},
				{"scaleH", &m.ScaleH},
			})
		case "char":
			var c CharDef
			var id int
			err = readInts(attrs, []intField{
				{"id", &id},
				{"x", &c.X},
				{"y", &c.Y},
				{"width", &c.Width},
				{"height", &c.Height},
				{"xoffset", &c.XOffset},
				{"yoffset", &c.YOffset},
				{"xadvance", &c.XAdvance},
			})
			c.ID = rune(id)
			m.Chars = append(m.Chars, c)
		case "kerning":
			var k KerningDef
			var first, second int
			err = readInts(attrs, []intField{
				{"first", &first},
				{"second", &second},
				{"amount", &k.Amount},
			})
			k.First, k.Second = rune(first), rune(second)
			m.Kernings = append(m.Kernings, k)
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Tag: tag, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("text: read metrics: %w", err)
	}
	if lineNo == 0 {
		return nil, ErrEmptyFontData
	}
	if !haveCommon {
		return nil, ErrMissingCommon
	}
	if m.ScaleW <= 0 || m.ScaleH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSheetSize, m.ScaleW, m.ScaleH)
	}
	return m, nil
}

// WriteTo writes m in BMFont text format. Characters and kerning pairs are
// written in ascending order.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	printf := func(format string, args ...any) {
		k, _ := fmt.Fprintf(bw, format, args...)
		n += int64(k)
	}

	printf("info face=%q size=%d\n", m.Face, m.Size)
	printf("common lineHeight=%d base=%d scaleW=%d scaleH=%d pages=1\n", m.LineHeight, m.Base, m.ScaleW, m.ScaleH)
	printf("page id=0 file=\"sheet.png\"\n")

	chars := append([]CharDef(nil), m.Chars...)
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	printf("chars count=%d\n", len(chars))
	for _, c := range chars {
		printf("char id=%d x=%d y=%d width=%d height=%d xoffset=%d yoffset=%d xadvance=%d page=0 chnl=15\n",
			c.ID, c.X, c.Y, c.Width, c.Height, c.XOffset, c.YOffset, c.XAdvance)
	}

	if len(m.Kernings) > 0 {
		kerns := append([]KerningDef(nil), m.Kernings...)
		sort.Slice(kerns, func(i, j int) bool {
			if kerns[i].First != kerns[j].First {
				return kerns[i].First < kerns[j].First
			}
			return kerns[i].Second < kerns[j].Second
		})
		printf("kernings count=%d\n", len(kerns))
		for _, k := range kerns {
			printf("kerning first=%d second=%d amount=%d\n", k.First, k.Second, k.Amount)
		}
	}
	return n, bw.Flush()
}

// splitLine splits a metrics line into its tag and key=value attributes.
// Values may be double-quoted and contain spaces.
func splitLine(line string) (string, map[string]string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	tag, rest, _ := strings.Cut(line, " ")
	attrs := make(map[string]string)

	for rest = strings.TrimLeft(rest, " \t"); rest != ""; rest = strings.TrimLeft(rest, " \t") {
		key, after, ok := strings.Cut(rest, "=")
		if !ok {
			break
		}
		key = strings.TrimSpace(key)
		var val string
		if strings.HasPrefix(after, `"`) {
			end := strings.IndexByte(after[1:], '"')
			if end < 0 {
				val, rest = after[1:], ""
			} else {
				val, rest = after[1:end+1], after[end+2:]
			}
		} else {
			val, rest, _ = strings.Cut(after, " ")
		}
		attrs[key] = val
	}
	return tag, attrs
}

// intField names one required integer attribute and where it is stored.
type intField struct {
	key string
	dst *int
}

// readInts fills fields in order and reports the first missing or malformed key.
func readInts(attrs map[string]string, fields []intField) error {
	for _, f := range fields {
		s, ok := attrs[f.key]
		if !ok {
			return fmt.Errorf("%s: %w", f.key, errMissingValue)
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}
	return nil
}

func optionalInt(attrs map[string]string, key string) (int, error) {
	s, ok := attrs[key]
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
