// Package loom is the server-side reactive UI runtime.
//
// A Runtime instance owns every arena of one user interface: the template
// registry, the element id arena, the signal store, the scope tree, and
// the handler registry. Nothing is process-global, so independent runtimes
// never observe each other's state.
//
// The render loop is pull-based. Event dispatch applies handler actions to
// signals, signal writes queue subscriber scopes, and RenderDirty drains
// that queue top down, diffing each dirty component against its previous
// render and appending the resulting mutations to a wire writer.
package loom

import (
	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/engine"
	"github.com/loom-ui/loom/pkg/handler"
	"github.com/loom-ui/loom/pkg/scope"
	"github.com/loom-ui/loom/pkg/signals"
	"github.com/loom-ui/loom/pkg/template"
	"github.com/loom-ui/loom/pkg/vnode"
	"github.com/loom-ui/loom/pkg/wire"
)

// Component builds one render's vnode tree into c.Store and returns the
// root vnode index. It runs inside the component's scope, so hook calls
// (UseSignalI32, UseHandler) resolve to stable per-scope slots and must
// not run conditionally.
type Component func(c *Ctx) int

// Ctx is the per-render context handed to a Component.
type Ctx struct {
	rt *Runtime

	// Scope is the rendering component's scope id.
	Scope uint32

	// Store receives this render's vnodes.
	Store *vnode.Store
}

// UseSignalI32 allocates an int signal on the first render and returns
// the same key on every later render.
func (c *Ctx) UseSignalI32(initial int32) uint32 {
	return c.rt.Scopes.UseSignalI32(initial)
}

// UseHandler registers a handler entry on the first render and returns
// the same handler id on every later render, keyed by call order like any
// other hook. The entry's Scope field is overwritten with the rendering
// scope.
func (c *Ctx) UseHandler(e handler.Entry) uint32 {
	m := c.rt.memoFor(c.Scope)
	if m.idx < len(m.ids) {
		id := m.ids[m.idx]
		m.idx++
		return id
	}
	e.Scope = c.Scope
	id := c.rt.Handlers.Register(e)
	m.ids = append(m.ids, id)
	m.idx++
	return id
}

// RegisterTemplate registers t with the runtime's template registry and
// returns its id. Registration deduplicates by name, so components may
// register their template on every render.
func (c *Ctx) RegisterTemplate(t *template.Template) uint32 {
	return c.rt.Templates.Register(t)
}

// Int reads an int signal, subscribing the rendering scope.
func (c *Ctx) Int(key uint32) int32 {
	return c.rt.Signals.ReadTracked(key, c.Scope).Int
}

// Bool reads a boolean signal, subscribing the rendering scope.
func (c *Ctx) Bool(key uint32) bool {
	return c.rt.Signals.ReadTracked(key, c.Scope).Bool
}

// Text reads a string signal, subscribing the rendering scope.
func (c *Ctx) Text(key uint32) string {
	return c.rt.Signals.ReadTracked(key, c.Scope).Text
}

// listenerKey addresses one live event listener.
type listenerKey struct {
	el    arena.ElementID
	event string
}

// mounted is the retained state of one mounted component.
type mounted struct {
	fn    Component
	store *vnode.Store
	root  int
}

// handlerMemo is a scope's ordered handler-hook slots.
type handlerMemo struct {
	ids []uint32
	idx int
}

// Runtime owns all state of one user interface instance.
type Runtime struct {
	Templates *template.Registry
	Elements  *arena.ElementArena
	Signals   *signals.Store
	Scopes    *scope.Arena
	Handlers  *handler.Registry

	listeners map[listenerKey]uint32
	apps      map[uint32]*mounted
	memos     map[uint32]*handlerMemo
}

// New returns an empty runtime.
func New() *Runtime {
	sigs := signals.NewStore()
	return &Runtime{
		Templates: template.NewRegistry(),
		Elements:  arena.NewElementArena(),
		Signals:   sigs,
		Scopes:    scope.NewArena(sigs),
		Handlers:  handler.NewRegistry(),
		listeners: make(map[listenerKey]uint32),
		apps:      make(map[uint32]*mounted),
		memos:     make(map[uint32]*handlerMemo),
	}
}

// Bind records that handler is listening for event on el. Implements
// engine.ListenerTable.
func (rt *Runtime) Bind(el arena.ElementID, event string, h uint32) {
	rt.listeners[listenerKey{el, event}] = h
}

// Unbind drops the listener record for (el, event).
func (rt *Runtime) Unbind(el arena.ElementID, event string) {
	delete(rt.listeners, listenerKey{el, event})
}

// HandlerFor resolves the handler listening for event on el.
func (rt *Runtime) HandlerFor(el arena.ElementID, event string) (uint32, bool) {
	h, ok := rt.listeners[listenerKey{el, event}]
	return h, ok
}

// ListenerCount returns the number of live listener bindings.
func (rt *Runtime) ListenerCount() int {
	return len(rt.listeners)
}

func (rt *Runtime) memoFor(sc uint32) *handlerMemo {
	m, ok := rt.memos[sc]
	if !ok {
		m = &handlerMemo{}
		rt.memos[sc] = m
	}
	return m
}

// render runs fn inside sc against a fresh store.
func (rt *Runtime) render(sc uint32, fn Component) (*vnode.Store, int) {
	store := vnode.NewStore()
	if m, ok := rt.memos[sc]; ok {
		m.idx = 0
	}
	prev := rt.Scopes.BeginRender(sc)
	root := fn(&Ctx{rt: rt, Scope: sc, Store: store})
	rt.Scopes.EndRender(prev)
	return store, root
}

func (rt *Runtime) engineFor(store *vnode.Store, w *wire.Writer) *engine.Engine {
	return engine.New(rt.Templates, store, rt.Elements, w, rt)
}

// Mount renders fn for the first time, appends the create mutations to w,
// and returns the new component's scope id.
func (rt *Runtime) Mount(fn Component, w *wire.Writer) uint32 {
	sc := rt.Scopes.CreateScope(0, scope.NoScope)
	store, root := rt.render(sc, fn)
	rt.engineFor(store, w).CreateNode(root)
	rt.apps[sc] = &mounted{fn: fn, store: store, root: root}
	return sc
}

// Unmount removes a mounted component: its roots are detached host-side,
// its element ids and listener bindings released, and its scope, hook
// signals, and handlers destroyed. Unmounting an unknown scope is a no-op.
func (rt *Runtime) Unmount(sc uint32, w *wire.Writer) {
	app, ok := rt.apps[sc]
	if !ok {
		return
	}
	eng := rt.engineFor(app.store, w)
	for _, r := range engine.Roots(app.store, app.root) {
		w.Remove(r)
	}
	eng.ReleaseNode(app.store, app.root)
	rt.Handlers.RemoveForScope(sc)
	rt.Scopes.DestroyScope(sc)
	delete(rt.memos, sc)
	delete(rt.apps, sc)
}

// Dispatch applies the handler's action and queues the affected scopes for
// re-render. It reports whether the event was handled; unknown handler
// ids and deferred (custom) actions report false.
func (rt *Runtime) Dispatch(handlerID uint32, p handler.Payload) bool {
	if !rt.Handlers.Contains(handlerID) {
		return false
	}
	handled := handler.Apply(rt.Handlers.Get(handlerID), rt.Signals, p)
	if handled {
		rt.flushDirty()
	}
	return handled
}

// DispatchNoPayload is the no-payload host entry point. The event tag is
// part of the host contract; the handler's action decides what to do with
// the event.
func (rt *Runtime) DispatchNoPayload(handlerID uint32, tag handler.EventType) bool {
	return rt.Dispatch(handlerID, handler.NoPayload())
}

// DispatchInt is the integer-payload host entry point.
func (rt *Runtime) DispatchInt(handlerID uint32, tag handler.EventType, v int32) bool {
	return rt.Dispatch(handlerID, handler.IntPayload(v))
}

// DispatchText is the string-payload host entry point, used for two-way
// text-input binding. A false return tells the host to fall back to the
// integer or no-payload path.
func (rt *Runtime) DispatchText(handlerID uint32, tag handler.EventType, s string) bool {
	return rt.Dispatch(handlerID, handler.TextPayload(s))
}

// DispatchElement resolves the handler bound to (el, event) and dispatches
// to it.
func (rt *Runtime) DispatchElement(el arena.ElementID, event string, p handler.Payload) bool {
	h, ok := rt.HandlerFor(el, event)
	if !ok {
		return false
	}
	return rt.Dispatch(h, p)
}

// flushDirty moves queued signal subscribers onto their scopes' dirty
// flags.
func (rt *Runtime) flushDirty() {
	for _, sub := range rt.Signals.DrainDirty() {
		rt.Scopes.MarkDirty(sub)
	}
}

// RenderDirty re-renders every dirty mounted component, parents before
// children, appending diff mutations to w. It returns the number of
// components re-rendered.
func (rt *Runtime) RenderDirty(w *wire.Writer) int {
	rt.flushDirty()
	n := 0
	for _, sc := range rt.Scopes.DirtyScopes() {
		app, ok := rt.apps[sc]
		if !ok {
			continue
		}
		store, root := rt.render(sc, app.fn)
		rt.engineFor(store, w).DiffNode(app.store, app.root, root)
		app.store, app.root = store, root
		n++
	}
	return n
}
