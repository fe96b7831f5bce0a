package record

import (
	"errors"
	"fmt"
	"strings"
)

// Field identifies one of the twelve columns of a contact record.
type Field string

const (
	FirstName   Field = "first_name"
	LastName    Field = "last_name"
	CompanyName Field = "company_name"
	Address     Field = "address"
	City        Field = "city"
	County      Field = "county"
	State       Field = "state"
	Zip         Field = "zip"
	Phone1      Field = "phone1"
	Phone2      Field = "phone2"
	Email       Field = "email"
	Web         Field = "web"
)

// canonical is the positional layout assumed when a header is unusable.
var canonical = []Field{
	FirstName, LastName, CompanyName, Address,
	City, County, State, Zip,
	Phone1, Phone2, Email, Web,
}

// ErrUnknownField is returned by ParseField for names outside the record shape.
var ErrUnknownField = errors.New("unknown field")

// Fields returns the canonical field order. The returned slice is a copy.
func Fields() []Field {
	out := make([]Field, len(canonical))
	copy(out, canonical)
	return out
}

// FieldNames returns the canonical field names as strings.
func FieldNames() []string {
	out := make([]string, len(canonical))
	for i, f := range canonical {
		out[i] = string(f)
	}
	return out
}

// Count is the number of fields in a record.
func Count() int { return len(canonical) }

// ParseField resolves a user supplied name such as "First Name" or
// "company-name" to a Field.
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	for _, f := range canonical {
		if string(f) == n {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownField, name, strings.Join(FieldNames(), ", "))
}

// Label is the human form of the field name used in headings.
func (f Field) Label() string { return strings.ReplaceAll(string(f), "_", " ") }

// Title is Label with the first letter upper-cased ("State", "Company name").
func (f Field) Title() string {
	l := f.Label()
	if l == "" {
		return l
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

// Record is one decoded row. Missing values are empty strings.
type Record struct {
	FirstName   string `csv:"first_name" json:"first_name" yaml:"first_name"`
	LastName    string `csv:"last_name" json:"last_name" yaml:"last_name"`
	CompanyName string `csv:"company_name" json:"company_name" yaml:"company_name"`
	Address     string `csv:"address" json:"address" yaml:"address"`
	City        string `csv:"city" json:"city" yaml:"city"`
	County      string `csv:"county" json:"county" yaml:"county"`
	State       string `csv:"state" json:"state" yaml:"state"`
	Zip         string `csv:"zip" json:"zip" yaml:"zip"`
	Phone1      string `csv:"phone1" json:"phone1" yaml:"phone1"`
	Phone2      string `csv:"phone2" json:"phone2" yaml:"phone2"`
	Email       string `csv:"email" json:"email" yaml:"email"`
	Web         string `csv:"web" json:"web" yaml:"web"`
}

// Dataset is an ordered sequence of records in source order.
type Dataset []Record

// Value returns the value stored at f, or "" for an unknown field.
func (r Record) Value(f Field) string {
	if p := r.slot(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns v to f. Unknown fields are ignored.
func (r *Record) Set(f Field, v string) {
	if p := r.slot(f); p != nil {
		*p = v
	}
}

// Values returns the field values in canonical order.
func (r Record) Values() []string {
	out := make([]string, len(canonical))
	for i, f := range canonical {
		out[i] = r.Value(f)
	}
	return out
}

// Map applies fn to every field in place.
func (r *Record) Map(fn func(string) string) {
	for _, f := range canonical {
		p := r.slot(f)
		*p = fn(*p)
	}
}

func (r *Record) slot(f Field) *string {
	switch f {
	case FirstName:
		return &r.FirstName
	case LastName:
		return &r.LastName
	case CompanyName:
		return &r.CompanyName
	case Address:
		return &r.Address
	case City:
		return &r.City
	case County:
		return &r.County
	case State:
		return &r.State
	case Zip:
		return &r.Zip
	case Phone1:
		return &r.Phone1
	case Phone2:
		return &r.Phone2
	case Email:
		return &r.Email
	case Web:
		return &r.Web
	}
	return nil
}
