package engine

import (
	"github.com/dop251/goja"

	"github.com/hostbridge/jsvm/resource"
)

// PropertyAttribute configures a template property slot. Attributes combine
// as a bit-set and map onto the engine's property descriptor flags when the
// template is instantiated.
type PropertyAttribute uint8

const (
	// None marks a regular writable, enumerable, configurable property.
	None PropertyAttribute = 0
	// ReadOnly clears the writable flag.
	ReadOnly PropertyAttribute = 1
	// DontEnum clears the enumerable flag.
	DontEnum PropertyAttribute = 2
	// DontDelete clears the configurable flag.
	DontDelete PropertyAttribute = 4
)

// ObjectTemplate describes the initial property layout of an object, used
// to seed the global object of new Contexts. Slots hold either a concrete
// Value or a nested template instantiated recursively at Context creation.
// Templates are build-then-use: mutating one after a Context was created
// from it does not affect that Context.
type ObjectTemplate struct {
	env    *Environment
	slots  []templateSlot
	index  map[string]int
	handle resource.Handle
}

type templateSlot struct {
	value    *Value
	template *ObjectTemplate
	name     string
	attrs    PropertyAttribute
}

// NewObjectTemplate creates an empty template owned by env.
func NewObjectTemplate(env *Environment) *ObjectTemplate {
	s := env.enter()
	defer s.exit()

	t := &ObjectTemplate{
		env:   env,
		index: make(map[string]int),
	}
	t.handle = env.table.Insert(resource.TypeTemplate, t)
	return t
}

// SetValue registers a named slot bound to an already-constructed Value.
// Setting a name twice replaces the earlier slot: last write wins.
func (t *ObjectTemplate) SetValue(name string, v *Value, attrs PropertyAttribute) {
	s := t.env.enter()
	defer s.exit()
	t.set(templateSlot{name: name, value: v, attrs: attrs})
}

// SetTemplate registers a named slot whose value is an object built from a
// nested template at instantiation time.
func (t *ObjectTemplate) SetTemplate(name string, nested *ObjectTemplate, attrs PropertyAttribute) {
	s := t.env.enter()
	defer s.exit()
	t.set(templateSlot{name: name, template: nested, attrs: attrs})
}

func (t *ObjectTemplate) set(slot templateSlot) {
	if i, ok := t.index[slot.name]; ok {
		t.slots[i] = slot
		return
	}
	t.index[slot.name] = len(t.slots)
	t.slots = append(t.slots, slot)
}

// Dispose releases the template. Nil-safe and idempotent. Contexts already
// created from it are unaffected.
func (t *ObjectTemplate) Dispose() {
	if t == nil {
		return
	}
	s := t.env.enter()
	defer s.exit()
	if t.handle != 0 {
		t.env.table.Remove(t.handle)
		t.handle = 0
	}
}

// instantiate materializes the template's slots onto obj inside vm.
// Called with the Environment scope held.
func (t *ObjectTemplate) instantiate(vm *goja.Runtime, obj *goja.Object) error {
	for _, slot := range t.slots {
		var v goja.Value
		switch {
		case slot.template != nil:
			nested := vm.NewObject()
			if err := slot.template.instantiate(vm, nested); err != nil {
				return err
			}
			v = nested
		case slot.value != nil:
			v = slot.value.v
		default:
			v = goja.Undefined()
		}

		writable := flagFor(slot.attrs&ReadOnly == 0)
		enumerable := flagFor(slot.attrs&DontEnum == 0)
		configurable := flagFor(slot.attrs&DontDelete == 0)
		if err := obj.DefineDataProperty(slot.name, v, writable, configurable, enumerable); err != nil {
			return err
		}
	}
	return nil
}

func flagFor(set bool) goja.Flag {
	if set {
		return goja.FLAG_TRUE
	}
	return goja.FLAG_FALSE
}
