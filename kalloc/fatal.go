package kalloc

// halt logs a violated invariant and stops. It never returns.
func (a *Allocator) halt(err *InvariantError) {
	a.log.Error("kalloc: unrecoverable error",
		"op", err.Op,
		"addr", err.Addr.String(),
		"check", err.Check,
		"count", err.Count)
	if a.haltFn != nil {
		a.haltFn(err)
	}
	panic(err)
}
