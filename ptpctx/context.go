// Package ptpctx implements the per-call codec scratch (C2) that the
// wire schema threads through nested encode/decode calls: toggles set
// by one field and read by another, named variant discriminators,
// runtime sequence lengths, and discriminator overrides for
// "no-discriminator" enums whose tag was already consumed by an
// enclosing field.
//
// A Context's lifetime is exactly one Encode or Decode call; it is
// never shared across packets (§4.2).
package ptpctx

import "fmt"

// Context is the per-packet scratch threaded through the schema
// codec. The zero value is ready to use.
type Context struct {
	toggles    map[string]bool
	variants   map[string]uint8
	lengthBy   map[string]int
	discStack  []uint8
	Connection interface{} // *session.Connection; interface{} avoids an import cycle
}

// New returns an empty Context.
func New() *Context {
	return &Context{}
}

// SetToggle records the value of a named toggle. Setting the same
// name again overwrites the earlier value: Context does not detect
// duplicate toggle declarations, and none of its methods returns
// ErrDuplicateToggle.
func (c *Context) SetToggle(name string, v bool) {
	if c.toggles == nil {
		c.toggles = make(map[string]bool)
	}
	c.toggles[name] = v
}

// Toggle returns the value of a named toggle, defaulting to false
// when absent, matching §4.3's "negated toggle... absence treated as
// false".
func (c *Context) Toggle(name string) bool {
	if c.toggles == nil {
		return false
	}
	return c.toggles[name]
}

// ToggledBy resolves a `toggled_by(name)` / `toggled_by(!name)`
// dependency: a leading "!" negates the stored toggle.
func (c *Context) ToggledBy(name string) bool {
	if len(name) > 0 && name[0] == '!' {
		return !c.Toggle(name[1:])
	}
	return c.Toggle(name)
}

// SetVariant records a named discriminator, set by a sibling field
// (e.g. `packet_type`) ahead of a later `variant_by` field.
func (c *Context) SetVariant(name string, v uint8) {
	if c.variants == nil {
		c.variants = make(map[string]uint8)
	}
	c.variants[name] = v
}

// Variant looks up a named discriminator set by SetVariant.
func (c *Context) Variant(name string) (uint8, bool) {
	v, ok := c.variants[name]
	return v, ok
}

// SetLengthBy records the runtime length of a subsequent seq<T> field.
func (c *Context) SetLengthBy(name string, n int) {
	if c.lengthBy == nil {
		c.lengthBy = make(map[string]int)
	}
	c.lengthBy[name] = n
}

// LengthBy returns the runtime length previously recorded for name.
// ErrMissingLengthByKey is returned when no sibling field declared it.
func (c *Context) LengthBy(name string) (int, error) {
	n, ok := c.lengthBy[name]
	if !ok {
		return 0, ErrMissingLengthByKey{Name: name}
	}
	return n, nil
}

// PushDiscriminator overrides the next variant decode/encode with an
// ambient discriminator instead of reading/writing a fresh one —
// used for "no-discriminator" enums whose tag was already consumed by
// an enclosing field (§4.3).
func (c *Context) PushDiscriminator(v uint8) {
	c.discStack = append(c.discStack, v)
}

// TakeDiscriminator consumes and returns the most recently pushed
// ambient discriminator, if any.
func (c *Context) TakeDiscriminator() (uint8, bool) {
	if len(c.discStack) == 0 {
		return 0, false
	}
	v := c.discStack[len(c.discStack)-1]
	c.discStack = c.discStack[:len(c.discStack)-1]
	return v, true
}

// ErrMissingLengthByKey mirrors §7's MissingLengthByKey(name).
type ErrMissingLengthByKey struct {
	Name string
}

func (e ErrMissingLengthByKey) Error() string {
	return fmt.Sprintf("ptpctx: missing length-by key %q", e.Name)
}

// ErrDuplicateToggle mirrors §4.3's "duplicate toggles(name)
// declarations in one struct -> encode error (InvalidData)".
type ErrDuplicateToggle struct {
	Name string
}

func (e ErrDuplicateToggle) Error() string {
	return fmt.Sprintf("ptpctx: duplicate toggle declaration %q", e.Name)
}
