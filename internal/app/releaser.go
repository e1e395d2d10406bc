package app

// releaser closes partially initialized resources when New bails out.
type releaser struct {
	fns  []func()
	kept bool
}

func (r *releaser) add(fn func()) {
	r.fns = append(r.fns, fn)
}

// keep hands the resources over to the App; release becomes a no-op.
func (r *releaser) keep() {
	r.kept = true
}

// release runs the registered closers in reverse order, once.
func (r *releaser) release() {
	if r.kept {
		return
	}
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}
