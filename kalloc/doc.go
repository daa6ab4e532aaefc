// Package kalloc is the physical page allocator: it hands out whole pages of
// a phys.Memory to user processes, kernel stacks, page tables and pipe
// buffers, takes them back, and counts how many owners each page has so a
// page can be shared before it is freed.
//
// # Components
//
// Reference-count table: one int32 per page of [Base, PhysTop), indexed by
// (addr - Base) >> PageShift, under one spin lock. A pooled page has count 0;
// an allocated page has count >= 1.
//
// Free pool: a LIFO list of pooled pages under its own spin lock. A page
// enters the pool only when its count drops from 1 to 0 and leaves it only
// when Alloc resets its count to 1.
//
// Bootstrap: Init walks [KernelEnd, PhysTop) once, forcing each whole page
// to count 1 and releasing it, which lands it in the pool.
//
// # Usage Example
//
//	mem, err := phys.New(phys.DefaultLayout())
//	if err != nil {
//	    return err
//	}
//	ka, err := kalloc.New(mem, nil)
//	if err != nil {
//	    return err
//	}
//	ka.Init()
//
//	p, err := ka.Alloc()
//	if errors.Is(err, kalloc.ErrNoMemory) {
//	    return err // fail the request that needed memory
//	}
//	copy(mem.Page(p), data)
//
//	// fork: the child shares p copy-on-write
//	ka.AddOwner(p)
//
//	ka.Free(p) // child exits, page still owned by the parent
//	ka.Free(p) // parent exits, page returns to the pool
//
// # Fill Patterns
//
// Alloc fills the page with format.AllocJunk before returning it. The last
// Free fills it with format.FreeJunk before pooling it.
//
// # Errors
//
// Running out of pages is ordinary: Alloc returns ErrNoMemory. Everything
// else is a bug in the caller (double free, freeing a kernel page, sharing a
// page nobody owns) and halts: the violation is logged and the allocator
// panics with an *InvariantError. Options.Halt substitutes the halt routine.
//
// # Thread Safety
//
// All exported methods may be called concurrently. Only Alloc holds both
// locks, pool first and table second; nothing takes them in the other order.
package kalloc
