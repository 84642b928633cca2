package zone

import (
	"strconv"
	"strings"

	"github.com/jvs-project/zonectl/pkg/errclass"
	"github.com/jvs-project/zonectl/pkg/model"
)

// Field identifies one column of the parsable zone listing. The constant
// order is the column order of `zoneadm list -p`.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldState
	FieldZonepath
	FieldUUID
	FieldBrand
	FieldIPType

	numFields
)

var fieldNames = [numFields]string{
	FieldID:       "id",
	FieldName:     "name",
	FieldState:    "state",
	FieldZonepath: "zonepath",
	FieldUUID:     "uuid",
	FieldBrand:    "brand",
	FieldIPType:   "ip-type",
}

// Fields returns every field in column order.
func Fields() []Field {
	fs := make([]Field, numFields)
	for i := range fs {
		fs[i] = Field(i)
	}
	return fs
}

// Valid reports whether f is one of the listing columns.
func (f Field) Valid() bool {
	return f >= 0 && f < numFields
}

func (f Field) String() string {
	if !f.Valid() {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// ParseField looks a field up by its column name.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return -1, errclass.ErrUnknownAttribute.WithMessagef("unknown zone attribute: %s", name)
}

// Attributes is the attribute set of one zone. Only listing columns can be
// stored; values other than the name are as fresh as the last refresh.
type Attributes struct {
	values [numFields]string
	set    [numFields]bool
}

// Set stores v under f. Unknown fields are rejected and leave the set unchanged.
func (a *Attributes) Set(f Field, v string) error {
	if !f.Valid() {
		return errclass.ErrUnknownAttribute.WithMessagef("unsupported zone attribute: %s", f)
	}
	a.put(f, v)
	return nil
}

// put stores v under a field known to be valid.
func (a *Attributes) put(f Field, v string) {
	a.values[f] = v
	a.set[f] = true
}

// Get returns the value of f and whether it has been populated.
func (a Attributes) Get(f Field) (string, bool) {
	if !f.Valid() {
		return "", false
	}
	return a.values[f], a.set[f]
}

// Value returns the value of f, or "" when unset.
func (a Attributes) Value(f Field) string {
	v, _ := a.Get(f)
	return v
}

// ParseRecord parses one line of `zoneadm list -p` output. Backslash
// escapes of ':' and '\' inside fields are honoured. Columns past the last
// known field (r/w, file-mac-profile on newer releases) are ignored.
func ParseRecord(line string) (Attributes, error) {
	var a Attributes

	cols := splitRecord(strings.TrimRight(line, "\r\n"))
	if len(cols) < int(numFields) {
		return a, errclass.ErrRecordMalformed.WithMessagef("expected at least %d fields, got %d: %q", numFields, len(cols), line)
	}
	if cols[FieldName] == "" {
		return a, errclass.ErrRecordMalformed.WithMessagef("empty zone name: %q", line)
	}

	for _, f := range Fields() {
		a.values[f] = cols[f]
		a.set[f] = true
	}
	return a, nil
}

// Record serializes the attributes back into listing format, column order
// preserved and separators escaped.
func (a Attributes) Record() string {
	cols := make([]string, numFields)
	for _, f := range Fields() {
		cols[f] = escapeField(a.values[f])
	}
	return strings.Join(cols, ":")
}

// Model returns the JSON projection of the attributes.
func (a Attributes) Model() model.ZoneRecord {
	raw := a.Value(FieldState)
	return model.ZoneRecord{
		ID:       a.Value(FieldID),
		Name:     a.Value(FieldName),
		State:    model.ParseState(raw),
		RawState: raw,
		Zonepath: a.Value(FieldZonepath),
		UUID:     a.Value(FieldUUID),
		Brand:    a.Value(FieldBrand),
		IPType:   a.Value(FieldIPType),
	}
}

// rawName returns the unescaped name column of a listing line, or "" when
// the line is too short to have one.
func rawName(line string) string {
	cols := splitRecord(strings.TrimRight(line, "\r\n"))
	if len(cols) <= int(FieldName) {
		return ""
	}
	return cols[FieldName]
}

func splitRecord(line string) []string {
	var (
		cols []string
		cur  strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			cols = append(cols, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(cols, cur.String())
}

func escapeField(v string) string {
	if !strings.ContainsAny(v, `:\`) {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == ':' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
