package jbind

import (
	"reflect"
	"sync"
	"time"
)

// proxyCodec is the placeholder installed during recursive resolution of a
// cyclic type graph (A contains B, B contains A). Its delegate may be set exactly once;
// any Write/Read issued before the delegate is set fails with
// CyclicResolutionNotReady — that only happens if a custom factory calls
// back into its own type before its own TryCreate returns, which is a
// programmer error, not a normal recursive reference.
type proxyCodec struct {
	mu       sync.RWMutex
	delegate Codec
}

func (p *proxyCodec) setDelegate(c Codec) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.delegate == nil {
		p.delegate = c
	}
}

func (p *proxyCodec) getDelegate() Codec {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.delegate
}

func (p *proxyCodec) Kind() CodecKind {
	if d := p.getDelegate(); d != nil {
		return d.Kind()
	}
	return Combined | KindCreator
}

func (p *proxyCodec) Write(v reflect.Value, typ Type) (*Tree, error) {
	d := p.getDelegate()
	if d == nil {
		return nil, &CyclicResolutionNotReadyError{Type: typ}
	}
	return d.Write(v, typ)
}

func (p *proxyCodec) Read(t *Tree, typ Type) (reflect.Value, error) {
	d := p.getDelegate()
	if d == nil {
		var zero reflect.Value
		return zero, &CyclicResolutionNotReadyError{Type: typ}
	}
	return d.Read(t, typ)
}

func (p *proxyCodec) CreateEmpty(typ Type) (reflect.Value, error) {
	d := p.getDelegate()
	if d == nil {
		var zero reflect.Value
		return zero, &CyclicResolutionNotReadyError{Type: typ}
	}
	return d.CreateEmpty(typ)
}

// writeCycled makes proxyCodec itself a cycleWriter, so a composite codec
// that resolved a nested type via Engine.resolve (and so holds a *proxyCodec,
// not the real delegate) still propagates the caller's cycle stack instead
// of starting a fresh one at the proxy boundary.
func (p *proxyCodec) writeCycled(v reflect.Value, typ Type, ctx *writeCtx) (*Tree, error) {
	d := p.getDelegate()
	if d == nil {
		return nil, &CyclicResolutionNotReadyError{Type: typ}
	}
	return writeValue(d, v, typ, ctx)
}

// resolveState is the per-request resolution scratchpad. Go has no
// goroutine-local storage, so it is threaded explicitly through the
// synchronous chain of resolve calls: a nil state parameter at a call site
// means "I am the initial (outermost) resolver call for this request"; a
// non-nil state means a caller further up the stack already owns one and
// this call is a recursive lookup within the same resolution (e.g. a
// struct codec resolving one of its field types).
type resolveState struct {
	inFlight map[Type]*proxyCodec
}

// adapterCache is the map from descriptor to resolved codec, shared by
// every goroutine using an Engine, monotonically grown and safe for
// concurrent reads.
type adapterCache struct {
	mu    sync.RWMutex
	codec map[Type]Codec
}

func newAdapterCache() *adapterCache {
	return &adapterCache{codec: make(map[Type]Codec)}
}

func (c *adapterCache) get(typ Type) (Codec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.codec[typ]
	return v, ok
}

// publish installs every entry of inFlight into the shared cache in a
// single locked pass. Called only on the initial (outermost) resolver
// call, after every proxy in inFlight has had its delegate set — the
// invariant that no un-delegated proxy is ever globally visible.
func (c *adapterCache) publish(inFlight map[Type]*proxyCodec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for typ, proxy := range inFlight {
		if _, exists := c.codec[typ]; exists {
			continue
		}
		if d := proxy.getDelegate(); d != nil {
			c.codec[typ] = d
		}
	}
}

// resolve produces a Codec for typ, consulting the cache first and falling
// back to the engine's ordered factory list, first match wins. Two
// goroutines may race to resolve the same descriptor and each publish a
// functionally equivalent codec; whichever reaches publish first for a
// given key wins, which is safe because codecs are required to be
// stateless.
func (e *Engine) resolve(typ Type, state *resolveState) (Codec, error) {
	initial := state == nil
	if c, ok := e.cache.get(typ); ok {
		if initial {
			emitResolveStart(typ.String())
			emitResolveComplete(typ.String(), 0, true, nil)
		}
		return c, nil
	}

	if initial {
		state = &resolveState{inFlight: make(map[Type]*proxyCodec)}
		emitResolveStart(typ.String())
		start := time.Now()
		c, err := e.resolveUncached(typ, state)
		emitResolveComplete(typ.String(), time.Since(start), false, err)
		if err != nil {
			return nil, err
		}
		e.cache.publish(state.inFlight)
		return c, nil
	}

	if p, ok := state.inFlight[typ]; ok {
		return p, nil
	}
	return e.resolveUncached(typ, state)
}

func (e *Engine) resolveUncached(typ Type, state *resolveState) (Codec, error) {
	proxy := &proxyCodec{}
	state.inFlight[typ] = proxy

	var resolved Codec
	for _, f := range e.factories {
		c, ok := f.TryCreate(typ, e, state)
		if ok {
			resolved = c
			break
		}
	}
	if resolved == nil {
		delete(state.inFlight, typ)
		return nil, &UnsupportedTypeError{Type: typ}
	}
	proxy.setDelegate(resolved)
	return proxy, nil
}
