package realtime

// tickLoop is the main tick execution loop.
func (rt *Runtime[C]) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.ticker.C:
			// Process tick with panic recovery: a panicking hook must not
			// kill the loop.
			func() {
				defer func() {
					if r := recover(); r != nil {
						rt.logger.Errorf("machine %s: tick %d panicked: %v", rt.machine.ID(), rt.ticks.Load(), r)
					}
				}()
				rt.processTick()
			}()

			rt.ticks.Inc()
		}
	}
}

// processTick processes one complete tick.
func (rt *Runtime[C]) processTick() {
	// Phase 1: Collect queued mutations atomically
	muts := rt.collectMutations()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Phase 2: Apply mutations in submission order
	for _, fn := range muts {
		fn(rt.machine, rt.machine.Context())
	}

	// Phase 3: Advance the machine one step
	if _, err := rt.machine.Step(); err != nil {
		rt.logger.Errorf("machine %s: step failed: %v", rt.machine.ID(), err)
		if rt.onStepError != nil {
			rt.onStepError(err)
		}
	}
}

// collectMutations atomically retrieves and clears the pending batch.
func (rt *Runtime[C]) collectMutations() []Mutation[C] {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	muts := rt.pending
	rt.pending = make([]Mutation[C], 0, cap(rt.pending))

	return muts
}
