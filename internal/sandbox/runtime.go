package sandbox

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/sproutcore/sproutcore-sub001/internal/config"
	"github.com/sproutcore/sproutcore-sub001/internal/ir"
	"github.com/sproutcore/sproutcore-sub001/internal/pipeline"
	"github.com/sproutcore/sproutcore-sub001/internal/sequencer"
)

// Options configures a Runtime.
type Options struct {
	// Roots are framework roots, executed in order.
	Roots []string

	// Bootstrap files run before any root, resolved against the working
	// directory.
	Bootstrap []string

	// Config defaults to config.Default().
	Config *config.Config

	// Host defaults to HostFromConfig(Config.Runtime.Host).
	Host *HostCapabilities

	// Classify returns the placement rule for one root. Defaults to
	// DefaultClassifier(Config). The root's bootstrap file is forced to
	// the front regardless.
	Classify func(root string) sequencer.Classifier

	IDGenerator IDGenerator
	Recorder    Recorder
	Logger      *slog.Logger
}

// Runtime is one sandbox session.
type Runtime struct {
	opts      Options
	cfg       *config.Config
	host      HostCapabilities
	roots     []string
	logger    *slog.Logger
	recorder  Recorder
	sequencer *sequencer.Sequencer

	vm         *goja.Runtime
	loaded     *ir.LoadedSet
	sessionID  string
	clock      *clock
	activeRoot string
	stack      []string
	fault      *ExecutionFault
	failed     error
}

// New creates a Runtime. Nothing runs until Start.
func New(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	host := HostFromConfig(cfg.Runtime.Host)
	if opts.Host != nil {
		host = *opts.Host
	}
	if opts.Classify == nil {
		opts.Classify = DefaultClassifier(cfg)
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = UUIDv7Generator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	roots := make([]string, len(opts.Roots))
	for i, root := range opts.Roots {
		roots[i] = ir.Identity(root, "")
	}

	r := &Runtime{
		opts:      opts,
		cfg:       cfg,
		host:      host,
		roots:     roots,
		logger:    logger,
		recorder:  recorder,
		sequencer: sequencer.New(sequencer.WithLogger(logger)),
	}
	if err := r.newSession(); err != nil {
		return nil, err
	}
	return r, nil
}

// newSession discards all execution state and builds a fresh VM.
func (r *Runtime) newSession() error {
	vm := goja.New()
	if err := r.host.install(vm); err != nil {
		return err
	}
	if err := vm.Set(r.cfg.Directive, r.requireFromScript); err != nil {
		return fmt.Errorf("install %s: %w", r.cfg.Directive, err)
	}

	r.vm = vm
	r.loaded = ir.NewLoadedSet()
	r.sessionID = r.opts.IDGenerator.Generate()
	r.clock = &clock{}
	r.activeRoot = ""
	r.stack = nil
	r.fault = nil
	r.failed = nil

	if err := r.recorder.BeginSession(r.sessionID, r.roots); err != nil {
		r.logger.Warn("journal begin session failed", "session", r.sessionID, "error", err)
	}
	return nil
}

// SessionID identifies the current session. Reset assigns a new one.
func (r *Runtime) SessionID() string {
	return r.sessionID
}

// Loaded returns the identities executed so far, in registration order.
func (r *Runtime) Loaded() []string {
	return r.loaded.Order()
}

// Err returns the failure that poisoned the runtime, or nil.
func (r *Runtime) Err() error {
	return r.failed
}

// Start runs the bootstrap files, then every root in order.
func (r *Runtime) Start() error {
	if err := r.usable(); err != nil {
		return err
	}
	for _, path := range r.opts.Bootstrap {
		if err := r.runBootstrap(path); err != nil {
			return r.poison(err)
		}
	}
	for _, root := range r.roots {
		if err := r.runRoot(root); err != nil {
			return r.poison(err)
		}
	}
	r.logger.Info("sandbox started",
		"session", r.sessionID,
		"roots", len(r.roots),
		"count", r.loaded.Len())
	return nil
}

// Reset discards the VM and the loaded set, opens a new session and runs
// Start again.
func (r *Runtime) Reset() error {
	if err := r.newSession(); err != nil {
		return err
	}
	return r.Start()
}

func (r *Runtime) runBootstrap(path string) error {
	id := ir.Identity(path, "")
	if r.loaded.Has(id) {
		return nil
	}
	data, err := os.ReadFile(id)
	if err != nil {
		return fmt.Errorf("bootstrap %s: %w", path, err)
	}
	return r.execute(id, string(data), CauseBootstrap)
}

func (r *Runtime) runRoot(root string) error {
	r.activeRoot = root
	defer func() { r.activeRoot = "" }()

	project, err := pipeline.Load(pipeline.Options{
		Roots:       []string{root},
		Base:        root,
		ExcludeDirs: r.cfg.Runtime.ExcludeDirs,
		Config:      r.cfg,
		Logger:      r.logger,
	})
	if err != nil {
		return err
	}

	g := project.Graph
	partition := sequencer.PartitionBy(g.Files, r.opts.Classify(root))
	if bootstrap := ir.Identity(filepath.Join(root, r.cfg.Bootstrap), ""); g.Has(bootstrap) {
		partition = forceLead(partition, bootstrap)
	}

	order, err := r.sequencer.Sequence(g, partition)
	if err != nil {
		return err
	}
	r.logger.Debug("sequenced root", "root", root, "count", len(order))

	for _, file := range order {
		if r.loaded.Has(file.Identity()) {
			continue
		}
		if err := r.execute(file.Identity(), file.RawText, CausePrecomputed); err != nil {
			return err
		}
	}
	return nil
}

// execute registers id, then runs text. The innermost fault wins: when a
// nested on-demand load already failed, that fault is returned unchanged.
func (r *Runtime) execute(id, text string, cause Cause) error {
	r.loaded.Add(id)
	r.stack = append(r.stack, id)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	seq := r.clock.next()
	r.logger.Debug("executing script", "file", id, "cause", cause, "seq", seq)

	_, err := r.vm.RunScript(id, text)
	if r.fault == nil && err != nil {
		r.fault = &ExecutionFault{Identity: id, Cause: err}
	}
	if r.fault != nil {
		r.record(LoadEvent{Seq: seq, Identity: id, Cause: cause, Outcome: OutcomeFault, Detail: r.fault.Error()})
		return r.fault
	}
	r.record(LoadEvent{Seq: seq, Identity: id, Cause: cause, Outcome: OutcomeLoaded})
	return nil
}

func (r *Runtime) record(ev LoadEvent) {
	ev.SessionID = r.sessionID
	if err := r.recorder.RecordLoad(ev); err != nil {
		r.logger.Warn("journal record failed", "session", r.sessionID, "file", ev.Identity, "error", err)
	}
}

func (r *Runtime) usable() error {
	if r.failed != nil {
		return fmt.Errorf("%w: %v", ErrPoisoned, r.failed)
	}
	return nil
}

func (r *Runtime) poison(err error) error {
	if r.failed == nil {
		r.failed = err
		r.logger.Error("sandbox failed", "session", r.sessionID, "error", err)
	}
	return err
}

// rootFor returns the framework root containing path, or "".
func (r *Runtime) rootFor(path string) string {
	best := ""
	for _, root := range r.roots {
		if (path == root || strings.HasPrefix(path, root+string(filepath.Separator))) && len(root) > len(best) {
			best = root
		}
	}
	return best
}
