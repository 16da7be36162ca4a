package sandbox

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// Get resolves a dotted path such as "MyApp.store.name" against the
// global object and returns the exported Go value.
func (r *Runtime) Get(path string) (any, error) {
	parent, name, err := r.parentOf(path)
	if err != nil {
		return nil, err
	}
	v := parent.Get(name)
	if v == nil || goja.IsUndefined(v) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return v.Export(), nil
}

// Set assigns value at a dotted path. Every parent segment must already
// exist and be an object.
func (r *Runtime) Set(path string, value any) error {
	parent, name, err := r.parentOf(path)
	if err != nil {
		return err
	}
	if err := parent.Set(name, value); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (r *Runtime) parentOf(path string) (*goja.Object, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	segments := strings.Split(path, ".")
	obj := r.vm.GlobalObject()
	for i, seg := range segments[:len(segments)-1] {
		v := obj.Get(seg)
		next, ok := v.(*goja.Object)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrPathNotFound, strings.Join(segments[:i+1], "."))
		}
		obj = next
	}
	return obj, segments[len(segments)-1], nil
}
