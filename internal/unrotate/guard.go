package unrotate

// crashGuard holds a pending terminal notice for the background goroutine.
// release sends the notice unless disarm was called first; only the graceful
// shutdown path disarms it.
type crashGuard struct {
	fire  func()
	armed bool
}

func newCrashGuard(fire func()) *crashGuard {
	return &crashGuard{fire: fire, armed: true}
}

func (g *crashGuard) disarm() {
	g.armed = false
}

func (g *crashGuard) release() {
	if !g.armed {
		return
	}
	g.armed = false
	g.fire()
}
