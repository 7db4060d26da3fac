package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Supported encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

// ValidEncodings lists the accepted LoadOptions.Encoding values.
var ValidEncodings = []string{EncodingUTF8, EncodingLatin1, EncodingWindows1252}

// LoadOptions configures CSV parsing.
type LoadOptions struct {
	Delimiter rune   // ',' when zero
	Encoding  string // utf-8 when empty
}

// normalized fills the defaults so equivalent options compare equal.
func (o LoadOptions) normalized() LoadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	switch strings.ToLower(o.Encoding) {
	case "", EncodingUTF8, "utf8":
		o.Encoding = EncodingUTF8
	case EncodingLatin1, "iso-8859-1":
		o.Encoding = EncodingLatin1
	case EncodingWindows1252, "cp1252":
		o.Encoding = EncodingWindows1252
	default:
		o.Encoding = strings.ToLower(o.Encoding)
	}
	return o
}

// Load reads every record from the CSV file at path.
func Load(path string, opts LoadOptions) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: dataset file not found: %s", ErrInvalidInput, path)
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: dataset path is a directory: %s", ErrInvalidInput, path)
	}

	return Read(f, opts)
}

// Read parses records from r. The first line must be a header containing
// RequiredColumns; header matching ignores case and accents.
func Read(r io.Reader, opts LoadOptions) ([]Record, error) {
	decoded, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = ','
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalidInput, err)
	}

	if !utf8.ValidString(strings.Join(header, "")) {
		return nil, fmt.Errorf("%w: header names %s", ErrInvalidInput, encodingHint)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}
		if isBlankLine(fields) {
			continue
		}

		rec, err := cols.parse(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}
		records = append(records, rec)
	}

	if !ValidUTF8(records) {
		return nil, fmt.Errorf("%w: categorical values %s", ErrInvalidInput, encodingHint)
	}
	return records, nil
}

// encodingHint ends the error for undecoded Latin-1 input; the decoders
// always produce valid UTF-8, so only utf-8 reads can hit it.
const encodingHint = "are not valid UTF-8; set encoding to latin1 or windows-1252"

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (valid: %v)", encoding, ValidEncodings)
	}
}

// columnIndex maps column names to their position in the header; -1 marks
// an absent optional column.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	byKey := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, dup := byKey[key]; !dup {
			byKey[key] = i
		}
	}

	cols := make(columnIndex, len(RequiredColumns)+len(OptionalColumns))
	var missing []string
	for _, c := range RequiredColumns {
		i, ok := byKey[NormalizeHeader(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[c] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	for _, c := range OptionalColumns {
		if i, ok := byKey[NormalizeHeader(c)]; ok {
			cols[c] = i
		} else {
			cols[c] = -1
		}
	}
	return cols, nil
}

func (c columnIndex) field(fields []string, name string) string {
	i := c[name]
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func (c columnIndex) parse(fields []string) (Record, error) {
	year, err := parseYear(c.field(fields, ColYear))
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Year:       year,
		State:      c.field(fields, ColState),
		Location:   c.field(fields, ColLocation),
		Dependency: c.field(fields, ColDependency),
		Stage:      c.field(fields, ColStage),
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{ColApprovalRate, &rec.ApprovalRate},
		{ColFailureRate, &rec.FailureRate},
		{ColDropoutRate, &rec.DropoutRate},
	}
	for _, f := range floats {
		v, err := parseNumber(c.field(fields, f.col))
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", f.col, err)
		}
		*f.dst = v
	}

	ints := []struct {
		col string
		dst *int64
	}{
		{ColApprovalCount, &rec.ApprovalCount},
		{ColFailureCount, &rec.FailureCount},
		{ColDropoutCount, &rec.DropoutCount},
	}
	for _, f := range ints {
		v, err := parseNumber(c.field(fields, f.col))
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", f.col, err)
		}
		*f.dst = int64(math.Round(v))
	}

	return rec, nil
}

// NormalizeHeader folds a column name to lower case without accents or a
// byte order mark, so "Unidade_Geográfica" matches "Unidade_Geografica".
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	return strings.ToLower(folded)
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("column %s: empty year", ColYear)
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	// pandas exports integer columns with NaNs as floats ("2023.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("column %s: invalid year %q", ColYear, s)
	}
	return int(f), nil
}

// missingMarkers are placeholders INEP uses for suppressed values.
var missingMarkers = map[string]bool{"": true, "-": true, "--": true, "na": true, "nan": true}

// parseNumber accepts "85.2", "85,2", "1.234,5" and "1,234.5"; missing
// markers parse as zero. Whichever of '.' and ',' comes last is the decimal
// separator and the other is a thousands separator.
func parseNumber(s string) (float64, error) {
	if missingMarkers[strings.ToLower(s)] {
		return 0, nil
	}
	num := s
	if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
		num = strings.ReplaceAll(num, ".", "")
		num = strings.Replace(num, ",", ".", 1)
	} else {
		num = strings.ReplaceAll(num, ",", "")
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func isBlankLine(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ValidUTF8 reports whether every categorical value in records is valid
// UTF-8, which catches Latin-1 files read without --encoding.
func ValidUTF8(records []Record) bool {
	for _, r := range records {
		if !utf8.ValidString(r.State) || !utf8.ValidString(r.Location) || !utf8.ValidString(r.Dependency) {
			return false
		}
	}
	return true
}
