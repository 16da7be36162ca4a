package sandbox

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
)

// HostCapabilities is what scripts are told about their host. It is plain
// data; the runtime builds the browser stand-ins from it.
type HostCapabilities struct {
	Platform string
	Version  string
	Language string
}

// DefaultHost describes this tool.
func DefaultHost() HostCapabilities {
	return HostCapabilities{Platform: "scload", Version: ir.Version, Language: "en-US"}
}

// HostFromConfig converts the runtime.host config section.
func HostFromConfig(h config.Host) HostCapabilities {
	host := HostCapabilities{Platform: h.Platform, Version: h.Version, Language: h.Language}
	def := DefaultHost()
	if host.Platform == "" {
		host.Platform = def.Platform
	}
	if host.Version == "" {
		host.Version = def.Version
	}
	if host.Language == "" {
		host.Language = def.Language
	}
	return host
}

// UserAgent is the navigator.userAgent string.
func (h HostCapabilities) UserAgent() string {
	return fmt.Sprintf("%s/%s", h.Platform, h.Version)
}

// install defines window, global, document, navigator, the timer
// functions and XMLHttpRequest on vm's global object. None of them do
// anything: timers never fire and requests are never sent.
func (h HostCapabilities) install(vm *goja.Runtime) error {
	global := vm.GlobalObject()
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }

	element := func() *goja.Object {
		el := vm.NewObject()
		_ = el.Set("style", vm.NewObject())
		_ = el.Set("childNodes", vm.NewArray())
		_ = el.Set("appendChild", func(call goja.FunctionCall) goja.Value { return call.Argument(0) })
		_ = el.Set("removeChild", func(call goja.FunctionCall) goja.Value { return call.Argument(0) })
		_ = el.Set("setAttribute", noop)
		_ = el.Set("addEventListener", noop)
		_ = el.Set("removeEventListener", noop)
		return el
	}

	document := vm.NewObject()
	_ = document.Set("body", element())
	_ = document.Set("documentElement", element())
	_ = document.Set("createElement", func(goja.FunctionCall) goja.Value { return element() })
	_ = document.Set("getElementById", func(goja.FunctionCall) goja.Value { return goja.Null() })
	_ = document.Set("appendChild", func(call goja.FunctionCall) goja.Value { return call.Argument(0) })
	_ = document.Set("addEventListener", noop)
	_ = document.Set("removeEventListener", noop)

	navigator := vm.NewObject()
	_ = navigator.Set("appName", h.Platform)
	_ = navigator.Set("appVersion", h.Version)
	_ = navigator.Set("userAgent", h.UserAgent())
	_ = navigator.Set("language", h.Language)

	var timerID int64
	newTimer := func(goja.FunctionCall) goja.Value {
		timerID++
		return vm.ToValue(timerID)
	}

	xhr := func(call goja.ConstructorCall) *goja.Object {
		_ = call.This.Set("readyState", 0)
		_ = call.This.Set("status", 0)
		_ = call.This.Set("responseText", "")
		_ = call.This.Set("open", noop)
		_ = call.This.Set("send", noop)
		_ = call.This.Set("setRequestHeader", noop)
		_ = call.This.Set("abort", noop)
		return nil
	}

	for name, value := range map[string]any{
		"window":         global,
		"global":         global,
		"document":       document,
		"navigator":      navigator,
		"setTimeout":     newTimer,
		"setInterval":    newTimer,
		"clearTimeout":   noop,
		"clearInterval":  noop,
		"XMLHttpRequest": xhr,
	} {
		if err := vm.Set(name, value); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}
