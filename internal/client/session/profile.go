package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Profile is the user record cached with the session. Fields the identity
// service returns beyond the known ones are kept in Extra.
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Role      string
	Extra     map[string]any
}

// Wire names of the known fields.
const (
	FieldUserID    = "userId"
	FieldUsername  = "username"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldRole      = "userRole"
)

// field returns a pointer to the known field stored under key, or nil.
func (p *Profile) field(key string) any {
	switch key {
	case FieldUserID:
		return &p.UserID
	case FieldUsername:
		return &p.Username
	case FieldFirstName:
		return &p.FirstName
	case FieldLastName:
		return &p.LastName
	case FieldRole:
		return &p.Role
	}
	return nil
}

// Clone returns a deep-enough copy: Extra is a new map, its values are shared.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Extra = maps.Clone(p.Extra)
	return &c
}

// Merge returns p with patch applied on top. Every key in patch wins over
// the existing value; nothing absent from patch is dropped.
//
// A known field is decoded weakly, so "42" and 42.0 both set UserID to 42,
// and a nil value resets the field. A value that cannot be decoded into its
// field's type lands in Extra under the same key, leaving the field as it
// was. Unknown keys always go to Extra.
func (p Profile) Merge(patch map[string]any) Profile {
	out := *p.Clone()

	for k, v := range patch {
		dst := out.field(k)
		if dst == nil {
			out.setExtra(k, v)
			continue
		}
		if v == nil {
			reflect.ValueOf(dst).Elem().SetZero()
			delete(out.Extra, k)
			continue
		}
		if err := weakDecode(v, dst); err != nil {
			out.setExtra(k, v)
			continue
		}
		delete(out.Extra, k)
	}

	if len(out.Extra) == 0 {
		out.Extra = nil
	}
	return out
}

func (p *Profile) setExtra(k string, v any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra[k] = v
}

// weakDecode decodes v into dst without touching dst on failure.
func weakDecode(v any, dst any) error {
	tmp := reflect.New(reflect.TypeOf(dst).Elem())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumber),
		Result:           tmp.Interface(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v); err != nil {
		return err
	}

	reflect.ValueOf(dst).Elem().Set(tmp.Elem())
	return nil
}

// wholeNumber stops a float with a fractional part from being truncated
// into an integer field.
func wholeNumber(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

// Map returns the flat representation: Extra keys plus the known fields.
// Empty optional fields are omitted; userId and username are always present.
func (p Profile) Map() map[string]any {
	m := make(map[string]any, len(p.Extra)+5)
	maps.Copy(m, p.Extra)

	m[FieldUserID] = p.UserID
	m[FieldUsername] = p.Username
	if p.FirstName != "" {
		m[FieldFirstName] = p.FirstName
	}
	if p.LastName != "" {
		m[FieldLastName] = p.LastName
	}
	if p.Role != "" {
		m[FieldRole] = p.Role
	}
	return m
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = Profile{}.Merge(m)
	return nil
}
