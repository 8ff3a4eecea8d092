package dedupfiles

// progressTracker counts checked candidates across all stages and calls the
// observer at most once every interval checks.
type progressTracker struct {
	interval int
	checked  int
	reported int
	notify   func(checked int)
}

func newProgressTracker(interval int, notify func(int)) *progressTracker {
	if interval < 1 {
		interval = DefaultProgressInterval
	}
	return &progressTracker{interval: interval, notify: notify}
}

// tick records one check
func (p *progressTracker) tick() {
	p.checked++
	if p.notify != nil && p.checked%p.interval == 0 {
		p.reported = p.checked
		p.notify(p.checked)
	}
}

// flush reports the final count if it has not been reported yet
func (p *progressTracker) flush() {
	if p.notify != nil && p.checked != p.reported {
		p.reported = p.checked
		p.notify(p.checked)
	}
}
