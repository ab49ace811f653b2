package pretend

import (
	"context"
	"fmt"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Binding is a Pretend bound to one validated interface. Generated clients
// hold a Binding and call Call or CallBlocking with the method index.
type Binding struct {
	pretend *Pretend
	desc    *descriptor.InterfaceDescriptor
	loop    *loop
	ownLoop bool
}

// Bind checks that the transport of p can serve the client kind of desc:
// blocking interfaces need a blocking transport, shared async interfaces a
// concurrent-safe transport, and thread-confined interfaces accept either
// async transport.
func (p *Pretend) Bind(desc *descriptor.InterfaceDescriptor) (*Binding, error) {
	if desc == nil {
		return nil, clientError(fmt.Errorf("nil interface descriptor"))
	}

	b := &Binding{pretend: p, desc: desc}
	switch desc.Kind {
	case descriptor.Blocking:
		if p.mode != modeBlocking {
			return nil, clientError(fmt.Errorf("%s is blocking and needs a blocking transport", desc.Name))
		}
	case descriptor.SharedAsync:
		if p.mode != modeShared {
			return nil, clientError(fmt.Errorf("%s is shared async and needs a transport safe for concurrent use", desc.Name))
		}
	case descriptor.ThreadConfinedAsync:
		switch p.mode {
		case modeLocal:
			b.loop = p.local
		case modeShared:
			b.loop = newLoop()
			b.ownLoop = true
		default:
			return nil, clientError(fmt.Errorf("%s is async and needs an async transport", desc.Name))
		}
	default:
		return nil, clientError(fmt.Errorf("unknown client kind %s", desc.Kind))
	}
	return b, nil
}

// Descriptor returns the bound interface descriptor.
func (b *Binding) Descriptor() *descriptor.InterfaceDescriptor {
	return b.desc
}

// Pretend returns the context the binding was created from.
func (b *Binding) Pretend() *Pretend {
	return b.pretend
}

// Close stops the goroutine of a thread-confined binding created over a
// shared transport.
func (b *Binding) Close() error {
	if b.ownLoop {
		b.loop.close()
	}
	return nil
}

func (b *Binding) method(index int, async bool) (*descriptor.MethodDescriptor, error) {
	if async != b.desc.Kind.IsAsync() {
		return nil, clientError(fmt.Errorf("%s is %s", b.desc.Name, b.desc.Kind))
	}
	if index < 0 || index >= len(b.desc.Methods) {
		return nil, clientError(fmt.Errorf("%s has no method at index %d", b.desc.Name, index))
	}
	return b.desc.Methods[index], nil
}

// Call runs method index of an async binding and decodes the result as T.
func Call[T any](ctx context.Context, b *Binding, index int, args Args) (T, error) {
	var out T
	m, err := b.method(index, true)
	if err != nil {
		return out, err
	}
	if b.loop == nil {
		return invoke[T](ctx, b.pretend, m, args)
	}

	if lerr := b.loop.run(ctx, func() { out, err = invoke[T](ctx, b.pretend, m, args) }); lerr != nil {
		return out, lerr
	}
	return out, err
}

// CallBlocking runs method index of a blocking binding and decodes the
// result as T.
func CallBlocking[T any](b *Binding, index int, args Args) (T, error) {
	var out T
	m, err := b.method(index, false)
	if err != nil {
		return out, err
	}
	plan, err := BuildPlan(m, args, b.pretend.codec)
	if err != nil {
		return out, err
	}
	raw, err := b.pretend.DispatchBlocking(plan)
	if err != nil {
		return out, err
	}
	return Decode[T](raw, m.Shape, b.pretend.codec)
}

func invoke[T any](ctx context.Context, p *Pretend, m *descriptor.MethodDescriptor, args Args) (T, error) {
	var out T
	plan, err := BuildPlan(m, args, p.codec)
	if err != nil {
		return out, err
	}
	raw, err := p.dispatch(ctx, plan)
	if err != nil {
		return out, err
	}
	return Decode[T](raw, m.Shape, p.codec)
}
