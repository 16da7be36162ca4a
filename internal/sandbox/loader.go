package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dop251/goja"

	"github.com/sproutcore/sproutcore-sub001/internal/extract"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// LoadStatus is the result of an on-demand load.
type LoadStatus int

const (
	NotFound LoadStatus = iota
	Loaded
	AlreadyLoaded
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case AlreadyLoaded:
		return "already-loaded"
	default:
		return "not-found"
	}
}

// Require loads ref on demand, as a script calling the directive function
// would. caller is the identity of the requesting file and may be empty.
//
// The exact path is tried first, then the path with the default extension.
// A reference that resolves to nothing returns NotFound and a nil error;
// callers may be probing for something optional. A folder reference loads
// every script directly inside the folder in listing order.
func (r *Runtime) Require(ref, caller string) (LoadStatus, error) {
	if err := r.usable(); err != nil {
		return NotFound, err
	}
	status, err := r.require(ref, caller)
	if err != nil {
		return status, r.poison(err)
	}
	return status, nil
}

// requireFromScript is installed under the directive name. It returns
// true unless the reference was not found, and rethrows failures into the
// calling script.
func (r *Runtime) requireFromScript(call goja.FunctionCall) goja.Value {
	arg := call.Argument(0)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		panic(r.vm.NewTypeError("%s: missing reference", r.cfg.Directive))
	}
	caller := ""
	if len(r.stack) > 0 {
		caller = r.stack[len(r.stack)-1]
	}
	status, err := r.require(arg.String(), caller)
	if err != nil {
		panic(r.vm.NewGoError(err))
	}
	return r.vm.ToValue(status != NotFound)
}

func (r *Runtime) require(ref, caller string) (LoadStatus, error) {
	if r.fault != nil {
		return NotFound, r.fault
	}
	callerDir, base := r.resolution(caller)
	resolved := extract.Resolve(ref, callerDir, base)

	if ir.IsFolder(ref) {
		return r.requireFolder(ref, resolved)
	}

	candidates := []string{resolved}
	if withExt := ir.Identity(resolved, r.cfg.Extension); withExt != resolved {
		candidates = append(candidates, withExt)
	}
	for _, id := range candidates {
		if r.loaded.Has(id) {
			return AlreadyLoaded, nil
		}
		text, ok, err := readScript(id)
		if err != nil {
			return NotFound, err
		}
		if !ok {
			continue
		}
		if err := r.execute(id, text, CauseOnDemand); err != nil {
			return Loaded, err
		}
		return Loaded, nil
	}

	r.notFound(ref, candidates[len(candidates)-1], caller)
	return NotFound, nil
}

func (r *Runtime) requireFolder(ref, dir string) (LoadStatus, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		r.notFound(ref, ir.FolderIdentity(dir), "")
		return NotFound, nil
	}
	if err != nil {
		return NotFound, fmt.Errorf("read folder %s: %w", dir, err)
	}

	status := AlreadyLoaded
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != r.cfg.Extension {
			continue
		}
		id := ir.Identity(filepath.Join(dir, entry.Name()), "")
		if r.loaded.Has(id) {
			continue
		}
		text, ok, err := readScript(id)
		if err != nil {
			return NotFound, err
		}
		if !ok {
			continue
		}
		if err := r.execute(id, text, CauseOnDemand); err != nil {
			return Loaded, err
		}
		status = Loaded
	}
	return status, nil
}

func (r *Runtime) notFound(ref, id, caller string) {
	r.logger.Debug("reference not found", "ref", ref, "file", id, "caller", caller)
	r.record(LoadEvent{Seq: r.clock.next(), Identity: id, Cause: CauseOnDemand, Outcome: OutcomeNotFound})
}

// resolution picks what a reference from caller resolves against: the
// root being executed, else the root holding caller, else caller's own
// directory. With no caller, the first root or the working directory.
func (r *Runtime) resolution(caller string) (callerDir, base string) {
	if caller != "" {
		callerDir = filepath.Dir(caller)
	}
	switch {
	case r.activeRoot != "":
		return callerDir, r.activeRoot
	case caller != "":
		return callerDir, r.rootFor(caller)
	case len(r.roots) > 0:
		return "", r.roots[0]
	default:
		return ".", ""
	}
}

// readScript returns the file's text. ok is false when id is missing or
// a directory.
func readScript(id string) (text string, ok bool, err error) {
	info, err := os.Stat(id)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", id, err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	data, err := os.ReadFile(id)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", id, err)
	}
	return string(data), true, nil
}
