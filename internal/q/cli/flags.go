package cli

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// flagValue is the typed storage behind one flag.
type flagValue interface {
	set(raw string) error
	kind() string // shown in help, ex: "string"; "" for bools
}

type boolValue struct{ p *bool }

func (v boolValue) set(raw string) error {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	*v.p = b
	return nil
}
func (v boolValue) kind() string { return "" }

type stringValue struct{ p *string }

func (v stringValue) set(raw string) error { *v.p = raw; return nil }
func (v stringValue) kind() string         { return "string" }

type intValue struct{ p *int }

func (v intValue) set(raw string) error {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*v.p = n
	return nil
}
func (v intValue) kind() string { return "int" }

type durationValue struct{ p *time.Duration }

func (v durationValue) set(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*v.p = d
	return nil
}
func (v durationValue) kind() string { return "duration" }

// stringSliceValue appends on every use. The first use replaces the default.
type stringSliceValue struct {
	p       *[]string
	touched *bool
}

func (v stringSliceValue) set(raw string) error {
	if !*v.touched {
		*v.p = nil
		*v.touched = true
	}
	*v.p = append(*v.p, raw)
	return nil
}
func (v stringSliceValue) kind() string { return "string" }

type choiceValue struct {
	p       *string
	choices []string
}

func (v choiceValue) set(raw string) error {
	if !slices.Contains(v.choices, raw) {
		return fmt.Errorf("must be one of %s", strings.Join(v.choices, ", "))
	}
	*v.p = raw
	return nil
}
func (v choiceValue) kind() string { return strings.Join(v.choices, "|") }

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	repeated  bool // help marks flags that may be given more than once
	value     flagValue
}

func (d *flagDef) isBool() bool {
	_, ok := d.value.(boolValue)
	return ok
}

func newFlagSet() *FlagSet {
	return &FlagSet{byLong: map[string]*flagDef{}, byShort: map[rune]*flagDef{}}
}

func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, value: boolValue{p}})
	return p
}

func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, value: stringValue{p}})
	return p
}

func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, value: intValue{p}})
	return p
}

func (fs *FlagSet) Duration(name string, shorthand rune, def time.Duration, usage string) *time.Duration {
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, value: durationValue{p}})
	return p
}

// StringSlice defines a flag that may be repeated; each use appends one value (ex: --arg a --arg b).
func (fs *FlagSet) StringSlice(name string, shorthand rune, def []string, usage string) *[]string {
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, repeated: true, value: stringSliceValue{p: p, touched: new(bool)}})
	return p
}

// Choice defines a string flag restricted to choices. def must be one of them.
func (fs *FlagSet) Choice(name string, shorthand rune, def string, choices []string, usage string) *string {
	if !slices.Contains(choices, def) {
		panic("cli: default for --" + name + " is not one of its choices")
	}
	p := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, value: choiceValue{p: p, choices: choices}})
	return p
}

func (fs *FlagSet) add(def *flagDef) {
	if def.name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[def.name]; ok {
		panic("cli: duplicate flag: --" + def.name)
	}
	fs.byLong[def.name] = def
	if def.shorthand != 0 {
		if _, ok := fs.byShort[def.shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", def.shorthand))
		}
		fs.byShort[def.shorthand] = def
	}
}

// activeFlags are the flags usable by a command: persistent flags along its path, plus its local flags.
type activeFlags struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

func (c *Command) activeFlags() activeFlags {
	a := activeFlags{byLong: map[string]*flagDef{}, byShort: map[rune]*flagDef{}}
	for _, cmd := range c.pathFromRoot() {
		if cmd.persistentFlags != nil {
			for _, def := range cmd.persistentFlags.byLong {
				a.add(def)
			}
		}
	}
	if c.localFlags != nil {
		for _, def := range c.localFlags.byLong {
			a.add(def)
		}
	}
	return a
}

func (a activeFlags) add(def *flagDef) {
	if existing, ok := a.byLong[def.name]; ok && existing != def {
		panic("cli: flag name conflict across command path: --" + def.name)
	}
	a.byLong[def.name] = def
	if def.shorthand != 0 {
		if existing, ok := a.byShort[def.shorthand]; ok && existing != def {
			panic(fmt.Sprintf("cli: shorthand conflict across command path: -%c", def.shorthand))
		}
		a.byShort[def.shorthand] = def
	}
}

// sorted returns the flags ordered by name, for help output.
func (a activeFlags) sorted() []*flagDef {
	defs := make([]*flagDef, 0, len(a.byLong))
	for _, def := range a.byLong {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs
}

// parseAndSet sets the flag named by name (or shorthand, if name is ""). value is the inline "=value", if any; next is the following argv token, if any. It reports whether next
// was consumed.
func (a activeFlags) parseAndSet(token string, name string, shorthand rune, value *string, next *string) (bool, error) {
	def := a.byShort[shorthand]
	if name != "" {
		def = a.byLong[name]
	}
	if def == nil {
		return false, usageErrorf("unknown flag: %s", token)
	}

	consumed := false
	var raw string
	switch {
	case value != nil:
		raw = *value
	case def.isBool():
		raw = "true"
		if next != nil {
			if _, err := strconv.ParseBool(*next); err == nil {
				raw, consumed = *next, true
			}
		}
	case next == nil:
		return false, usageErrorf("flag needs a value: %s", token)
	case *next == "--":
		return false, usageErrorf("flag needs a value before --: %s", token)
	default:
		raw, consumed = *next, true
	}

	if err := def.value.set(raw); err != nil {
		return false, usageErrorf("invalid value for %s: %v", displayFlag(def), err)
	}
	return consumed, nil
}

func displayFlag(def *flagDef) string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}
