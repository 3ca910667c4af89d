package cascade

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType   = reflect.TypeOf(time.Duration(0))
	providenceType = reflect.TypeOf(Providence{})
)

// fieldSpec describes one loadable struct field.
type fieldSpec struct {
	index    int
	key      string // lowercased
	required bool
}

// fieldKey returns f's lowercased key and whether f is loadable. The cascade tag name wins over the json tag name, which wins over the Go name. cascade:"-" skips the field;
// json:"-" does not, since it only hides the json name.
func fieldKey(f reflect.StructField) (string, bool) {
	if name, _, _ := strings.Cut(f.Tag.Get("cascade"), ","); strings.TrimSpace(name) != "" {
		name = strings.TrimSpace(name)
		return strings.ToLower(name), name != "-"
	}
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); strings.TrimSpace(name) != "" && strings.TrimSpace(name) != "-" {
		return strings.ToLower(strings.TrimSpace(name)), true
	}
	return strings.ToLower(f.Name), true
}

func hasRequiredOption(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("cascade"), ",")
	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "required" {
			return true
		}
	}
	return false
}

// fieldSpecs indexes the settable, loadable fields of t by key. Two fields with the same case-insensitive key are an error.
func fieldSpecs(v reflect.Value) (map[string]fieldSpec, error) {
	t := v.Type()
	specs := map[string]fieldSpec{}
	for i := range t.NumField() {
		f := t.Field(i)
		if !v.Field(i).CanSet() {
			continue
		}
		key, ok := fieldKey(f)
		if !ok {
			continue
		}
		if prev, dup := specs[key]; dup {
			return nil, fmt.Errorf("struct contains case-insensitive field key collision for %q: %s and %s", key, t.Field(prev.index).Name, f.Name)
		}
		specs[key] = fieldSpec{index: i, key: key, required: hasRequiredOption(f)}
	}
	return specs, nil
}

// decoder applies one source's normalized map to a struct. present is shared across sources and records the dot-paths that any source assigned.
type decoder struct {
	prov    Providence
	present map[string]bool
}

// decodeStruct writes m into sv. Unknown keys and nil values are ignored.
func (d *decoder) decodeStruct(sv reflect.Value, m map[string]any, base string) error {
	specs, err := fieldSpecs(sv)
	if err != nil {
		return err
	}
	for key, raw := range m {
		spec, ok := specs[strings.ToLower(key)]
		if !ok || raw == nil {
			continue
		}
		path := joinPath(base, spec.key)
		if err := d.decodeValue(sv.Field(spec.index), raw, path); err != nil {
			return err
		}
		name := sv.Type().Field(spec.index).Name
		if provSpec, ok := specs[strings.ToLower(name+"Providence")]; ok {
			setProvidence(sv.Field(provSpec.index), d.prov)
		}
	}
	return nil
}

// decodeValue assigns raw to v, allocating pointers as needed. Destinations may be structs (from objects), strings, bools, ints, floats, time.Duration, or []string.
func (d *decoder) decodeValue(v reflect.Value, raw any, path string) error {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	switch {
	case v.Type() == durationType:
		dur, err := toDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		v.SetInt(int64(dur))

	case v.Kind() == reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object for struct field", path)
		}
		return d.decodeStruct(v, obj, path)

	case v.Kind() == reflect.Slice:
		items, err := toStrings(v.Type(), raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out := reflect.MakeSlice(v.Type(), len(items), len(items))
		for i, s := range items {
			out.Index(i).SetString(s)
		}
		v.Set(out)

	default:
		if err := setScalar(v, raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	d.present[path] = true
	return nil
}

func setProvidence(v reflect.Value, prov Providence) {
	if v.Kind() == reflect.Ptr && v.Type().Elem() == providenceType {
		if v.IsNil() {
			v.Set(reflect.New(providenceType))
		}
		v = v.Elem()
	}
	if v.Type() == providenceType {
		v.Set(reflect.ValueOf(prov))
	}
}

func toStrings(t reflect.Type, raw any) ([]string, error) {
	if t.Elem().Kind() != reflect.String {
		return nil, fmt.Errorf("unsupported slice element type %s", t.Elem().Kind())
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to []string", raw)
}

// setScalar coerces raw into v's kind. Floats truncate toward zero for int fields. Strings are trimmed before parsing.
func setScalar(v reflect.Value, raw any) error {
	kind := v.Kind()
	switch kind {
	case reflect.String:
		switch r := raw.(type) {
		case string:
			v.SetString(r)
		case float64:
			v.SetString(strconv.FormatFloat(r, 'f', -1, 64))
		case int:
			v.SetString(strconv.Itoa(r))
		case bool:
			v.SetString(strconv.FormatBool(r))
		default:
			return cannotCoerce(raw, kind)
		}

	case reflect.Bool:
		switch r := raw.(type) {
		case bool:
			v.SetBool(r)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(r))
			if err != nil {
				return fmt.Errorf("cannot parse bool from %q", r)
			}
			v.SetBool(b)
		default:
			return cannotCoerce(raw, kind)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch r := raw.(type) {
		case int:
			v.SetInt(int64(r))
		case float64:
			v.SetInt(int64(r))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse int from %q", r)
			}
			v.SetInt(n)
		default:
			return cannotCoerce(raw, kind)
		}

	case reflect.Float32, reflect.Float64:
		switch r := raw.(type) {
		case float64:
			v.SetFloat(r)
		case int:
			v.SetFloat(float64(r))
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
			if err != nil {
				return fmt.Errorf("cannot parse float from %q", r)
			}
			v.SetFloat(f)
		default:
			return cannotCoerce(raw, kind)
		}

	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}

func cannotCoerce(raw any, kind reflect.Kind) error {
	return fmt.Errorf("cannot coerce %T to %s", raw, kind)
}

// toDuration accepts a time.ParseDuration string ("1m30s") or a number of seconds, given as a number or a bare numeric string.
func toDuration(raw any) (time.Duration, error) {
	var secs float64
	switch v := raw.(type) {
	case int:
		secs = float64(v)
	case float64:
		secs = v
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			secs = f
			break
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("cannot parse duration from %q", v)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to duration", raw)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// checkRequired returns an error naming the first field tagged cascade:",required" that no source set. It recurses into nested structs.
func checkRequired(sv reflect.Value, base string, present map[string]bool) error {
	t := sv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		key, ok := fieldKey(f)
		if !ok {
			continue
		}
		path := joinPath(base, key)
		if hasRequiredOption(f) && !present[path] {
			return fmt.Errorf("missing required key: %s", path)
		}

		fv := sv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct && fv.Type() != providenceType {
			if err := checkRequired(fv, path, present); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
